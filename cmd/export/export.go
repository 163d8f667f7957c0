// Package export writes the expense lines of a period to CSV
package export

import (
	"context"
	"fmt"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	csvutil "contajur/ledger/internal/common"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/models"

	"github.com/spf13/cobra"
)

var (
	// Period is the month to export, as YYYY-MM.
	Period string
	// Output is the CSV file to write; standard output when empty.
	Output string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the expense lines of a period to CSV",
	Long: `Export the classified expense lines of a period with period, category,
subcategory and amount columns. The delimiter follows csv.delimiter.

Example:
  contajur export -p 2025-07 -o despesas.csv`,
	Run: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Period, "period", "p", "", "Period as YYYY-MM")
	Cmd.Flags().StringVarP(&Output, "output", "o", "", "Output CSV file (default: standard output)")
	_ = Cmd.MarkFlagRequired("period")
}

func exportFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Run(cmd.Context(), c, Period, Output, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run exports the period to output, or to w when output is empty.
func Run(ctx context.Context, c *container.Container, period, output string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := models.ParsePeriod(period)
	if err != nil {
		return err
	}
	ledger, err := c.GetLedgerStore().GetPeriod(ctx, p)
	if err != nil {
		return err
	}

	if output == "" {
		return csvutil.ExportExpenses(w, ledger.Expenses)
	}
	if err := csvutil.WriteExpensesToCSV(ledger.Expenses, output, c.GetLogger()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d expense lines of %s to %s\n", len(ledger.Expenses), p, output)
	return nil
}
