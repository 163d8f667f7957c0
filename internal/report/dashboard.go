package report

import (
	"context"
	"fmt"
	"sort"

	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Dashboard is the monthly view of one period.
type Dashboard struct {
	Period                models.Period        `json:"period"`
	Totals                models.LedgerTotals  `json:"totals"`
	MinimumWage           decimal.Decimal      `json:"minimum_wage"`
	RevenueInMinimumWages decimal.Decimal      `json:"revenue_in_minimum_wages"`
	FeesInMinimumWages    decimal.Decimal      `json:"fees_in_minimum_wages"`
	Categories            []CategoryGroup      `json:"categories"`
	TopExpenses           []models.ExpenseLine `json:"top_expenses"`
	Withdrawals           []models.Withdrawal  `json:"withdrawals"`
}

// CategoryGroup is the expense lines of one category.
type CategoryGroup struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Lines []ExpenseItem   `json:"lines"`
}

// ExpenseItem is an expense line with its share of the category total.
type ExpenseItem struct {
	Subcategory string          `json:"subcategory"`
	Amount      decimal.Decimal `json:"amount"`
	Percent     decimal.Decimal `json:"percent"`
}

// Dashboard returns the dashboard of period. A missing period yields a
// NotFoundError from the store. Each call returns its own copy, so callers
// may modify the result without touching the cache.
func (s *Service) Dashboard(ctx context.Context, period models.Period) (*Dashboard, error) {
	key := fmt.Sprintf(ckDashboard, period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*Dashboard).clone(), nil
	}

	ledger, err := s.store.GetPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	d := BuildDashboard(ledger, s.opts)
	s.cache.Set(key, d, DefaultCacheExpiration)
	s.logger.WithField(logging.FieldPeriod, period.String()).Debug("Dashboard built")
	return d.clone(), nil
}

func (d *Dashboard) clone() *Dashboard {
	c := *d
	if d.Totals.Shares != nil {
		c.Totals.Shares = make(map[models.Partner]decimal.Decimal, len(d.Totals.Shares))
		for p, v := range d.Totals.Shares {
			c.Totals.Shares[p] = v
		}
	}
	if d.Categories != nil {
		c.Categories = make([]CategoryGroup, len(d.Categories))
		for i, g := range d.Categories {
			g.Lines = append([]ExpenseItem(nil), g.Lines...)
			c.Categories[i] = g
		}
	}
	c.TopExpenses = append([]models.ExpenseLine(nil), d.TopExpenses...)
	c.Withdrawals = append([]models.Withdrawal(nil), d.Withdrawals...)
	return &c
}

// BuildDashboard computes the dashboard of a ledger.
func BuildDashboard(ledger models.Ledger, opts Options) *Dashboard {
	totals := ledger.Totals
	d := &Dashboard{
		Period:                ledger.Period(),
		Totals:                totals,
		MinimumWage:           opts.MinimumWage,
		RevenueInMinimumWages: inMinimumWages(totals.TotalRevenue, opts.MinimumWage),
		FeesInMinimumWages:    inMinimumWages(totals.TotalFees, opts.MinimumWage),
		Categories:            groupByCategory(ledger.Expenses, opts.CategoryOrder),
		TopExpenses:           TopExpenses(ledger.Expenses, opts.TopN),
		Withdrawals:           ledger.Withdrawals,
	}
	return d
}

// TopExpenses returns the n largest lines, largest first. Ties keep their
// sheet order.
func TopExpenses(lines []models.ExpenseLine, n int) []models.ExpenseLine {
	sorted := make([]models.ExpenseLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func inMinimumWages(amount, wage decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() || !wage.IsPositive() {
		return decimal.Zero
	}
	return amount.DivRound(wage, 2)
}

// groupByCategory groups lines in display order and drops empty categories.
func groupByCategory(lines []models.ExpenseLine, order []string) []CategoryGroup {
	byName := make(map[string]*CategoryGroup)
	for _, line := range lines {
		g, ok := byName[line.Category]
		if !ok {
			g = &CategoryGroup{Name: line.Category, Total: decimal.Zero}
			byName[line.Category] = g
		}
		g.Total = g.Total.Add(line.Amount)
		g.Lines = append(g.Lines, ExpenseItem{Subcategory: line.Subcategory, Amount: line.Amount})
	}

	names := make([]string, 0, len(byName))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := byName[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range byName {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	groups := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		g := byName[name]
		for i := range g.Lines {
			g.Lines[i].Percent = currencyutils.Percent(g.Lines[i].Amount, g.Total).Round(2)
		}
		groups = append(groups, *g)
	}
	return groups
}
