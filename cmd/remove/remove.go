// Package remove deletes a period from the ledger
package remove

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

// Period is the month to delete, as YYYY-MM.
var Period string

// Cmd represents the delete command
var Cmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete everything stored for a period",
	Long: `Delete the totals, expense lines and withdrawals of a period, including
withdrawals registered by hand.

Example:
  contajur delete -p 2025-07`,
	Run: deleteFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Period, "period", "p", "", "Period as YYYY-MM")
	_ = Cmd.MarkFlagRequired("period")
}

func deleteFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Run(cmd.Context(), c, Period, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run deletes the period.
func Run(ctx context.Context, c *container.Container, period string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := models.ParsePeriod(period)
	if err != nil {
		return err
	}
	if err := c.GetImporter().DeletePeriod(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %s\n", p)
	return nil
}
