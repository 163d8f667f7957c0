// Package common holds the helpers shared by the subcommands.
package common

import (
	"errors"
	"fmt"
	"io"

	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/batch"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/importer"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"
	"contajur/ledger/internal/report"
)

// MustContainer returns the container of the running command and exits
// when it was not built.
func MustContainer() *container.Container {
	c := root.GetContainer()
	if c == nil {
		root.Log.Fatal("Container not initialized")
	}
	return c
}

// ParsePeriods parses YYYY-MM flag values into sorted, distinct periods.
func ParsePeriods(values []string) ([]models.Period, error) {
	if len(values) == 0 {
		return nil, &parsererror.ValidationError{Reason: "at least one period is required"}
	}
	periods := make([]models.Period, 0, len(values))
	for _, v := range values {
		p, err := models.ParsePeriod(v)
		if err != nil {
			return nil, &parsererror.ValidationError{Reason: fmt.Sprintf("period %q: %v", v, err)}
		}
		periods = append(periods, p)
	}
	return models.UniquePeriods(periods), nil
}

// WriteReport renders v in the given format.
func WriteReport(w io.Writer, g *report.ReportGenerator, v interface{}, format string) error {
	out, err := g.GenerateReport(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// WriteImportResult prints what one import stored and what it reported.
func WriteImportResult(w io.Writer, res importer.ImportResult) {
	t := res.Ledger.Totals
	fmt.Fprintf(w, "Imported %s (period from %s, %s layout, sheet %q)\n",
		res.Period, res.PeriodSource, res.Strategy, res.Sheet)
	fmt.Fprintf(w, "  revenue %s  expenses %s  net %s  fees %s\n",
		t.TotalRevenue.StringFixed(2), t.TotalExpenses.StringFixed(2),
		t.NetProfit.StringFixed(2), t.TotalFees.StringFixed(2))
	fmt.Fprintf(w, "  %d expense lines, %d withdrawals, %d rows dropped\n",
		len(res.Ledger.Expenses), len(res.Ledger.Withdrawals), len(res.DroppedRows))
	WriteDiagnostics(w, res.Diagnostics)
}

// WriteDiagnostics lists non-fatal import findings, one per line.
func WriteDiagnostics(w io.Writer, diags parsererror.Diagnostics) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "%d warnings:\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  - %v\n", d)
	}
}

// WriteBatchSummary prints one line per file of a directory import.
func WriteBatchSummary(w io.Writer, s batch.Summary) {
	for _, r := range s.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "FAILED  %s: %v\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(w, "OK      %s -> %s (%d warnings)\n", r.File, r.Period, r.Diagnostics)
	}
	for _, p := range s.Replaced {
		fmt.Fprintf(w, "Period %s was imported more than once; the last file was kept\n", p)
	}
	fmt.Fprintf(w, "%d of %d files imported\n", s.Succeeded(), len(s.Results))
}

// ExitMessage turns an operation error into the message logged before exit.
func ExitMessage(err error) string {
	var layoutErr *parsererror.LayoutError
	var notFound *parsererror.NotFoundError
	var formatErr *parsererror.InvalidFormatError
	switch {
	case errors.As(err, &layoutErr):
		return fmt.Sprintf("Sheet layout not recognized: %v", err)
	case errors.As(err, &notFound):
		return fmt.Sprintf("Nothing stored: %v", err)
	case errors.As(err, &formatErr):
		return fmt.Sprintf("Unsupported input: %v", err)
	default:
		return err.Error()
	}
}
