// Package locator finds the period, the reported totals and the itemized
// rows inside a monthly report sheet.
package locator

import (
	"time"

	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/dateutils"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"
	"contajur/ledger/internal/sheet"

	"github.com/shopspring/decimal"
)

// Hint carries the period fallbacks used when the sheet has no date range.
type Hint struct {
	Filename string
	Now      func() time.Time
}

// Located is the layout-independent result of reading a report sheet.
type Located struct {
	Period       models.Period
	PeriodSource dateutils.PeriodSource
	Strategy     string
	Sheet        string
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	Items        []models.ItemRow
	Diagnostics  parsererror.Diagnostics
}

// Locate runs strategy over g. A LayoutError means the sheet does not match
// the strategy and nothing should be stored.
func Locate(g *sheet.Grid, strategy Strategy, hint Hint) (Located, error) {
	ext, err := strategy.Extract(g)
	if err != nil {
		return Located{}, err
	}

	loc := Located{
		Strategy: strategy.Name(),
		Sheet:    g.Name,
		Items:    ext.Items,
	}

	loc.Period, loc.PeriodSource = resolvePeriod(g, hint)
	if loc.PeriodSource != dateutils.SourceHeader {
		loc.Diagnostics.Add(&parsererror.PeriodFallback{
			Source: string(loc.PeriodSource),
			Period: loc.Period.String(),
		})
	}

	revenue, diags := currencyutils.NormalizeAll(ext.RevenueCells)
	loc.Diagnostics = append(loc.Diagnostics, diags...)
	expenses, diags := currencyutils.NormalizeAll(ext.ExpenseCells)
	loc.Diagnostics = append(loc.Diagnostics, diags...)

	loc.Revenue = currencyutils.Sum(revenue)
	loc.Expenses = currencyutils.Sum(expenses)
	return loc, nil
}

func resolvePeriod(g *sheet.Grid, hint Hint) (models.Period, dateutils.PeriodSource) {
	for c := 0; c < g.NumCols(); c++ {
		if p, ok := dateutils.PeriodFromHeader(g.Cell(0, c).String()); ok {
			return p, dateutils.SourceHeader
		}
	}
	now := time.Now
	if hint.Now != nil {
		now = hint.Now
	}
	return dateutils.ResolvePeriod("", hint.Filename, now())
}
