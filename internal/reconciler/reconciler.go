// Package reconciler turns a located and classified sheet into the ledger
// records of one period.
package reconciler

import (
	"fmt"

	"contajur/ledger/internal/locator"
	"contajur/ledger/internal/models"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	partnerSlot = decimal.NewFromInt(int64(len(models.Partners)))
)

// MarginPlaces is the number of decimal places kept in ProfitMargin.
const MarginPlaces = 4

// Policy holds the revision-dependent reconciliation rules.
type Policy struct {
	// SubtractEmbeddedWithdrawals removes withdrawal rows found in the sheet
	// from the reported expense total, for revisions that list them as
	// expenses.
	SubtractEmbeddedWithdrawals bool
	// AbsoluteAmounts reads negative item amounts as their absolute value,
	// for revisions that export expenses as negatives.
	AbsoluteAmounts bool
}

// DefaultPolicy is the policy of the current report revision.
func DefaultPolicy() Policy {
	return Policy{SubtractEmbeddedWithdrawals: true, AbsoluteAmounts: true}
}

// Result is a reconciled ledger plus the rows that did not make it in.
type Result struct {
	Ledger  models.Ledger
	Dropped []models.ClassifiedRow
}

// Reconcile computes the totals and assembles the expense lines and
// withdrawals of located.Period. NetProfit is revenue minus the effective
// expense total; every partner starts from an equal quarter of it and named
// partners are reduced by their own withdrawals.
func Reconcile(located locator.Located, rows []models.ClassifiedRow, policy Policy) (Result, error) {
	if located.Period.IsZero() {
		return Result{}, fmt.Errorf("cannot reconcile a sheet without a period")
	}

	var (
		res         Result
		fees        = decimal.Zero
		withdrawn   = decimal.Zero
		perPartner  = make(map[models.Partner]decimal.Decimal)
		expenses    []models.ExpenseLine
		withdrawals []models.Withdrawal
	)

	for _, row := range rows {
		amount := row.Amount
		if policy.AbsoluteAmounts {
			amount = amount.Abs()
		}
		class := row.Classification

		if class.Kind == models.RowUncategorized || !amount.IsPositive() {
			res.Dropped = append(res.Dropped, row)
			continue
		}

		switch class.Kind {
		case models.RowWithdrawal:
			if !class.Person.TakesWithdrawals() {
				return Result{}, fmt.Errorf("row %d: withdrawal attributed to %q", row.Row, class.Person)
			}
			withdrawn = withdrawn.Add(amount)
			perPartner[class.Person] = perPartner[class.Person].Add(amount)
			withdrawals = append(withdrawals, models.Withdrawal{
				Period: located.Period,
				Person: class.Person,
				Amount: amount,
				Source: models.SourceExcel,
			})
		case models.RowFee:
			fees = fees.Add(amount)
			if class.Category != "" {
				expenses = append(expenses, expenseLine(located.Period, class.Category, row, amount))
			}
		case models.RowExpense:
			expenses = append(expenses, expenseLine(located.Period, class.Category, row, amount))
		}
	}

	totalExpenses := located.Expenses
	if policy.SubtractEmbeddedWithdrawals {
		totalExpenses = totalExpenses.Sub(withdrawn)
	}

	res.Ledger = models.Ledger{
		Totals:      BuildTotals(located.Period, located.Revenue, totalExpenses, fees, perPartner),
		Expenses:    expenses,
		Withdrawals: withdrawals,
	}
	return res, nil
}

// BuildTotals derives net profit, margin and partner shares.
func BuildTotals(period models.Period, revenue, expenses, fees decimal.Decimal, withdrawals map[models.Partner]decimal.Decimal) models.LedgerTotals {
	net := revenue.Sub(expenses)
	preShare := net.Div(partnerSlot)

	shares := make(map[models.Partner]decimal.Decimal, len(models.Partners))
	for _, p := range models.Partners {
		share := preShare
		if p.TakesWithdrawals() {
			share = share.Sub(withdrawals[p])
		}
		shares[p] = share
	}

	return models.LedgerTotals{
		Period:        period,
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		TotalFees:     fees,
		NetProfit:     net,
		ProfitMargin:  Margin(net, revenue),
		Shares:        shares,
	}
}

// Margin is net/revenue in percent, zero when revenue is not positive.
func Margin(net, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return net.Mul(hundred).DivRound(revenue, MarginPlaces)
}

func expenseLine(period models.Period, category string, row models.ClassifiedRow, amount decimal.Decimal) models.ExpenseLine {
	return models.ExpenseLine{
		Period:      period,
		Category:    category,
		Subcategory: row.Description,
		Amount:      amount,
	}
}
