package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ReportGenerator renders report views.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders a *Dashboard, a *Comparison or a period list in
// the given format (json or text).
func (g *ReportGenerator) GenerateReport(v interface{}, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSONReport(v)
	case FormatText, "":
		return g.generateTextReport(v)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) generateTextReport(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	switch r := v.(type) {
	case *Dashboard:
		writeDashboard(w, r)
	case *Comparison:
		writeComparison(w, r)
	case []models.Period:
		for _, p := range r {
			fmt.Fprintln(w, p.String())
		}
	default:
		return nil, fmt.Errorf("no text layout for %T", v)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write text report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDashboard(w *tabwriter.Writer, d *Dashboard) {
	t := d.Totals
	fmt.Fprintf(w, "Período\t%s\n", d.Period)
	fmt.Fprintf(w, "Receitas\t%s\t(%s salários mínimos)\n", currencyutils.FormatBRL(t.TotalRevenue), d.RevenueInMinimumWages.StringFixed(2))
	fmt.Fprintf(w, "Despesas\t%s\n", currencyutils.FormatBRL(t.TotalExpenses))
	fmt.Fprintf(w, "Lucro líquido\t%s\n", currencyutils.FormatBRL(t.NetProfit))
	fmt.Fprintf(w, "Margem\t%s%%\n", t.ProfitMargin.StringFixed(2))
	fmt.Fprintf(w, "Honorários\t%s\t(%s salários mínimos)\n", currencyutils.FormatBRL(t.TotalFees), d.FeesInMinimumWages.StringFixed(2))

	fmt.Fprintln(w, "\nDivisão do lucro")
	for _, p := range models.Partners {
		fmt.Fprintf(w, "  %s\t%s\n", p, currencyutils.FormatBRL(t.Share(p)))
	}

	for _, g := range d.Categories {
		fmt.Fprintf(w, "\n%s\t%s\n", g.Name, currencyutils.FormatBRL(g.Total))
		for _, line := range g.Lines {
			fmt.Fprintf(w, "  %s\t%s\t%s%%\n", line.Subcategory, currencyutils.FormatBRL(line.Amount), line.Percent.StringFixed(2))
		}
	}

	if len(d.TopExpenses) > 0 {
		fmt.Fprintf(w, "\nMaiores despesas\n")
		for i, line := range d.TopExpenses {
			fmt.Fprintf(w, "  %d. %s\t%s\n", i+1, line.Subcategory, currencyutils.FormatBRL(line.Amount))
		}
	}

	if len(d.Withdrawals) > 0 {
		fmt.Fprintf(w, "\nRetiradas\n")
		for _, wd := range d.Withdrawals {
			fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\n", wd.ID, wd.Person, currencyutils.FormatBRL(wd.Amount), wd.Source)
		}
	}
}

func writeComparison(w *tabwriter.Writer, c *Comparison) {
	header := func(periods []models.Period) {
		fmt.Fprint(w, "\t")
		for _, p := range periods {
			fmt.Fprintf(w, "%s\t", p)
		}
		fmt.Fprintln(w)
	}
	row := func(label string, values []string) {
		fmt.Fprintf(w, "%s\t%s\t\n", label, strings.Join(values, "\t"))
	}

	header(c.Totals.Periods)
	row("Receitas", formatAll(c.Totals.Revenue))
	row("Despesas", formatAll(c.Totals.Expenses))
	row("Lucro líquido", formatAll(c.Totals.NetProfit))
	row("Honorários", formatAll(c.Totals.Fees))

	if len(c.Categories) == 0 {
		return
	}
	fmt.Fprintln(w)
	header(c.Periods)
	for _, s := range c.Categories {
		row(s.Name, formatAll(s.Values))
	}
}
