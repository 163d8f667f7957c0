package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTotals is the single totals record of a period.
// NetProfit is always TotalRevenue - TotalExpenses as computed by the import
// that produced the record; it is never derived back from Shares.
type LedgerTotals struct {
	Period        Period                      `json:"period"`
	TotalRevenue  decimal.Decimal             `json:"total_revenue"`
	TotalExpenses decimal.Decimal             `json:"total_expenses"`
	TotalFees     decimal.Decimal             `json:"total_fees"`
	NetProfit     decimal.Decimal             `json:"net_profit"`
	ProfitMargin  decimal.Decimal             `json:"profit_margin"`
	Shares        map[Partner]decimal.Decimal `json:"shares"`
}

// Share returns the partner's current share, zero when unset.
func (t LedgerTotals) Share(p Partner) decimal.Decimal {
	if t.Shares == nil {
		return decimal.Zero
	}
	return t.Shares[p]
}

// SharesSum adds every partner share.
func (t LedgerTotals) SharesSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range Partners {
		sum = sum.Add(t.Share(p))
	}
	return sum
}

// ExpenseLine is one classified, non-zero item of a period.
type ExpenseLine struct {
	Period      Period          `json:"period" csv:"period"`
	Category    string          `json:"category" csv:"category"`
	Subcategory string          `json:"subcategory" csv:"subcategory"`
	Amount      decimal.Decimal `json:"amount" csv:"amount"`
}

// WithdrawalSource tells where a withdrawal came from.
type WithdrawalSource string

const (
	SourceExcel  WithdrawalSource = "excel"
	SourceManual WithdrawalSource = "manual"
)

// Withdrawal is money taken by a named partner during a period.
type Withdrawal struct {
	ID        int64            `json:"id"`
	Period    Period           `json:"period"`
	Person    Partner          `json:"person"`
	Amount    decimal.Decimal  `json:"amount"`
	Source    WithdrawalSource `json:"source"`
	CreatedAt time.Time        `json:"created_at"`
}

// Ledger is everything stored for one period.
type Ledger struct {
	Totals      LedgerTotals  `json:"totals"`
	Expenses    []ExpenseLine `json:"expenses"`
	Withdrawals []Withdrawal  `json:"withdrawals"`
}

// Period returns the key of the ledger.
func (l Ledger) Period() Period {
	return l.Totals.Period
}
