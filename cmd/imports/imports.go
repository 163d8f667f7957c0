// Package imports handles the import of monthly report files
package imports

import (
	"context"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/fileutils"

	"github.com/spf13/cobra"
)

// Input is the report file or directory to import.
var Input string

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a monthly report (.xlsx or .csv) into the ledger",
	Long: `Import a monthly report exported by the accounting system.

The period is read from the sheet header, then from the file name, then from
the clock. Importing a month again replaces everything stored for it except
the withdrawals that were registered by hand.

When -i names a directory, every report in it is imported in name order and
files that fail are reported without stopping the run.

Example:
  contajur import -i relatorio_2025-07.xlsx
  contajur import -i reports/ --strategy fixed`,
	Run: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Input, "input", "i", "", "Report file or directory")
	Cmd.Flags().String("strategy", "", "Layout strategy (marker, fixed)")
	Cmd.Flags().String("sheet", "", "Sheet to read (default from configuration)")
	Cmd.Flags().Bool("subtract-withdrawals", true, "Subtract withdrawal rows of the sheet from the reported expenses")
	Cmd.Flags().Bool("absolute-amounts", true, "Treat negative item amounts as their absolute value")
	_ = Cmd.MarkFlagRequired("input")

	for key, name := range map[string]string{
		"layout.strategy":                "strategy",
		"layout.sheet":                   "sheet",
		"reconcile.subtract_withdrawals": "subtract-withdrawals",
		"reconcile.absolute_amounts":     "absolute-amounts",
	} {
		if err := root.BindFlag(key, Cmd.Flags().Lookup(name)); err != nil {
			root.Log.Fatalf("Failed to bind flag %s: %v", name, err)
		}
	}
}

func importFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Import command called")

	c := common.MustContainer()
	if err := Run(cmd.Context(), c, Input, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run imports a single report, or every report of a directory.
func Run(ctx context.Context, c *container.Container, input string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if fileutils.DirectoryExists(input) {
		summary, err := c.GetBatchImporter().ImportDir(ctx, input)
		if err != nil {
			return err
		}
		common.WriteBatchSummary(w, summary)
		return nil
	}

	res, err := c.GetImporter().ImportFile(ctx, input)
	if err != nil {
		return err
	}
	common.WriteImportResult(w, res)
	return nil
}
