// Package show renders the dashboard of one period
package show

import (
	"context"
	"io"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/models"

	"github.com/spf13/cobra"
)

// Period is the month to show, as YYYY-MM.
var Period string

// Cmd represents the show command
var Cmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dashboard of a period",
	Long: `Show revenue, expenses, net profit, margin, fees, the partner shares,
expenses by category, the largest expenses and the withdrawals of a period.

Example:
  contajur show -p 2025-07
  contajur show -p 2025-07 --format json`,
	Run: showFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Period, "period", "p", "", "Period as YYYY-MM")
	_ = Cmd.MarkFlagRequired("period")
}

func showFunc(cmd *cobra.Command, args []string) {
	c := common.MustContainer()
	if err := Run(cmd.Context(), c, Period, root.SharedFlags.Format, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run writes the dashboard of period in the given format.
func Run(ctx context.Context, c *container.Container, period, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := models.ParsePeriod(period)
	if err != nil {
		return err
	}
	dashboard, err := c.GetReports().Dashboard(ctx, p)
	if err != nil {
		return err
	}
	return common.WriteReport(w, c.GetReportGenerator(), dashboard, format)
}
