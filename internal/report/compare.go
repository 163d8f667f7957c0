package report

import (
	"context"
	"sort"

	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Comparison aligns several periods side by side.
type Comparison struct {
	Periods    []models.Period  `json:"periods"`
	Totals     TotalsSeries     `json:"totals"`
	Categories []CategorySeries `json:"categories"`
}

// TotalsSeries holds one value per stored period.
type TotalsSeries struct {
	Periods   []models.Period   `json:"periods"`
	Revenue   []decimal.Decimal `json:"revenue"`
	Expenses  []decimal.Decimal `json:"expenses"`
	NetProfit []decimal.Decimal `json:"net_profit"`
	Fees      []decimal.Decimal `json:"fees"`
}

// CategorySeries holds one category total per requested period, zero where
// the category has no lines.
type CategorySeries struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
	Total  decimal.Decimal   `json:"total"`
}

// Compare builds the comparison of periods. At least two distinct periods
// are required.
func (s *Service) Compare(ctx context.Context, periods []models.Period) (*Comparison, error) {
	requested := models.UniquePeriods(periods)
	if len(requested) < 2 {
		return nil, &parsererror.ValidationError{Reason: "select at least two periods to compare"}
	}

	ledgers, err := s.store.GetPeriodsRange(ctx, requested)
	if err != nil {
		return nil, err
	}
	return BuildComparison(requested, ledgers), nil
}

// BuildComparison aligns ledgers on requested, which must be sorted.
func BuildComparison(requested []models.Period, ledgers []models.Ledger) *Comparison {
	c := &Comparison{Periods: requested}

	sorted := make([]models.Ledger, len(ledgers))
	copy(sorted, ledgers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period().Before(sorted[j].Period()) })

	index := make(map[models.Period]int, len(requested))
	for i, p := range requested {
		index[p] = i
	}

	byCategory := make(map[string]*CategorySeries)
	for _, l := range sorted {
		t := l.Totals
		c.Totals.Periods = append(c.Totals.Periods, l.Period())
		c.Totals.Revenue = append(c.Totals.Revenue, t.TotalRevenue)
		c.Totals.Expenses = append(c.Totals.Expenses, t.TotalExpenses)
		c.Totals.NetProfit = append(c.Totals.NetProfit, t.NetProfit)
		c.Totals.Fees = append(c.Totals.Fees, t.TotalFees)

		col, ok := index[l.Period()]
		if !ok {
			continue
		}
		for _, line := range l.Expenses {
			series, ok := byCategory[line.Category]
			if !ok {
				series = &CategorySeries{Name: line.Category, Values: zeros(len(requested)), Total: decimal.Zero}
				byCategory[line.Category] = series
			}
			series.Values[col] = series.Values[col].Add(line.Amount)
			series.Total = series.Total.Add(line.Amount)
		}
	}

	for _, series := range byCategory {
		c.Categories = append(c.Categories, *series)
	}
	sort.Slice(c.Categories, func(i, j int) bool {
		if cmp := c.Categories[i].Total.Cmp(c.Categories[j].Total); cmp != 0 {
			return cmp > 0
		}
		return c.Categories[i].Name < c.Categories[j].Name
	})
	return c
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func formatAll(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = currencyutils.FormatLocale(v)
	}
	return out
}
