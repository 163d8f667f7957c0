// Package withdraw manages the withdrawals registered by hand
package withdraw

import (
	"context"
	"fmt"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/models"

	"github.com/spf13/cobra"
)

var (
	// Period is the month of the withdrawal, as YYYY-MM.
	Period string
	// Person is the partner taking the money.
	Person string
	// Amount is the withdrawn amount in pt-BR or plain notation.
	Amount string
	// ID selects the withdrawal to delete.
	ID int64
	// Input is a CSV file of withdrawals.
	Input string
)

// Cmd represents the withdraw command
var Cmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Register or remove partner withdrawals",
	Long: `Register withdrawals that the monthly report does not carry, or remove them.

Withdrawals registered here survive a new import of the same month. Only they
can be deleted; withdrawals read from the report change with the report.`,
}

// AddCmd represents the withdraw add command
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a withdrawal and lower the partner's share",
	Long: `Register a withdrawal and lower the partner's share of the period.

Example:
  contajur withdraw add -p 2025-07 --person Lucas --amount 1000,00`,
	Run: addFunc,
}

// DeleteCmd represents the withdraw delete command
var DeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a registered withdrawal and restore the partner's share",
	Long: `Delete a withdrawal registered by hand. The amount goes back to the share.

Example:
  contajur withdraw delete --id 12`,
	Run: deleteFunc,
}

// ImportCmd represents the withdraw import command
var ImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Register the withdrawals listed in a CSV file",
	Long: `Register every row of a CSV file with period, person and amount columns.

Example:
  contajur withdraw import -i retiradas.csv`,
	Run: importFunc,
}

func init() {
	AddCmd.Flags().StringVarP(&Period, "period", "p", "", "Period as YYYY-MM")
	AddCmd.Flags().StringVar(&Person, "person", "", "Partner name (Lucas, Thiago, Ronaldo)")
	AddCmd.Flags().StringVarP(&Amount, "amount", "a", "", "Amount, e.g. 1.000,00")
	_ = AddCmd.MarkFlagRequired("period")
	_ = AddCmd.MarkFlagRequired("person")
	_ = AddCmd.MarkFlagRequired("amount")

	DeleteCmd.Flags().Int64Var(&ID, "id", 0, "Withdrawal id as shown by the dashboard")
	_ = DeleteCmd.MarkFlagRequired("id")

	ImportCmd.Flags().StringVarP(&Input, "input", "i", "", "CSV file of withdrawals")
	_ = ImportCmd.MarkFlagRequired("input")

	Cmd.AddCommand(AddCmd, DeleteCmd, ImportCmd)
}

func addFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Add(cmd.Context(), c, Period, Person, Amount, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

func deleteFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Delete(cmd.Context(), c, ID, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

func importFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Import(cmd.Context(), c, Input, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Add registers one withdrawal.
func Add(ctx context.Context, c *container.Container, period, person, amount string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := models.ParsePeriod(period)
	if err != nil {
		return err
	}
	wd, err := c.GetImporter().AddWithdrawal(ctx, p, person, amount)
	if err != nil {
		return err
	}
	writeWithdrawal(w, "Registered", wd)
	return nil
}

// Delete removes the withdrawal with the given id.
func Delete(ctx context.Context, c *container.Container, id int64, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	wd, err := c.GetImporter().DeleteWithdrawal(ctx, id)
	if err != nil {
		return err
	}
	writeWithdrawal(w, "Deleted", wd)
	return nil
}

// Import registers the withdrawals of a CSV file. Rows before a failing row
// stay registered.
func Import(ctx context.Context, c *container.Container, path string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	added, err := c.GetImporter().ImportWithdrawals(ctx, path)
	for _, wd := range added {
		writeWithdrawal(w, "Registered", wd)
	}
	return err
}

func writeWithdrawal(w io.Writer, verb string, wd models.Withdrawal) {
	fmt.Fprintf(w, "%s withdrawal #%d: %s %s in %s\n", verb, wd.ID, wd.Person, wd.Amount.StringFixed(2), wd.Period)
}
