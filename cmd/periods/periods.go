// Package periods lists the months stored in the ledger
package periods

import (
	"context"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the periods command
var Cmd = &cobra.Command{
	Use:   "periods",
	Short: "List the imported periods, most recent first",
	Run:   periodsFunc,
}

func periodsFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Run(cmd.Context(), c, root.SharedFlags.Format, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run writes the stored periods in the given format.
func Run(ctx context.Context, c *container.Container, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	list, err := c.GetReports().Periods(ctx)
	if err != nil {
		return err
	}
	return common.WriteReport(w, c.GetReportGenerator(), list, format)
}
