// Package compare renders a side by side view of several periods
package compare

import (
	"context"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/container"

	"github.com/spf13/cobra"
)

// Periods are the months to compare, as YYYY-MM.
var Periods []string

// Cmd represents the compare command
var Cmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare totals and category expenses across periods",
	Long: `Compare revenue, expenses, net profit and fees across two or more periods,
followed by the expenses of each category in every requested period.

Example:
  contajur compare -p 2025-06 -p 2025-07`,
	Run: compareFunc,
}

func init() {
	Cmd.Flags().StringSliceVarP(&Periods, "period", "p", nil, "Period as YYYY-MM (repeat for each period)")
	_ = Cmd.MarkFlagRequired("period")
}

func compareFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Run(cmd.Context(), c, Periods, root.SharedFlags.Format, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run writes the comparison of the given periods.
func Run(ctx context.Context, c *container.Container, values []string, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	periods, err := common.ParsePeriods(values)
	if err != nil {
		return err
	}
	comparison, err := c.GetReports().Compare(ctx, periods)
	if err != nil {
		return err
	}
	return common.WriteReport(w, c.GetReportGenerator(), comparison, format)
}
