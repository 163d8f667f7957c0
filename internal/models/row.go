package models

import "github.com/shopspring/decimal"

// ItemRow is a candidate itemized line found by the layout locator.
type ItemRow struct {
	Row         int     // 1-based sheet row
	Description string  // trimmed description text
	Total       RawCell // unnormalized amount
	TotalRef    string  // A1 reference of Total
}

// RowKind is the outcome of classifying an item row.
type RowKind int

const (
	RowUncategorized RowKind = iota
	RowExpense
	RowFee
	RowWithdrawal
)

func (k RowKind) String() string {
	switch k {
	case RowExpense:
		return "expense"
	case RowFee:
		return "fee"
	case RowWithdrawal:
		return "withdrawal"
	default:
		return "uncategorized"
	}
}

// Classification is assigned once per row and never changed afterwards.
type Classification struct {
	Kind     RowKind
	Category string  // expense category; for fee rows, the optional category they are also filed under
	Person   Partner // set for withdrawal rows
}

// ClassifiedRow is an item row with its normalized amount and classification.
type ClassifiedRow struct {
	ItemRow
	Amount         decimal.Decimal
	Classification Classification
}
