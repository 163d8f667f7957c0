package models

import "github.com/shopspring/decimal"

// CellKind tags the content of a RawCell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// RawCell is an untyped spreadsheet value. It must go through
// currencyutils.Normalize before any arithmetic.
type RawCell struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
}

// EmptyCell returns a blank cell.
func EmptyCell() RawCell { return RawCell{Kind: CellEmpty} }

// NumberCell wraps a value the spreadsheet already stored as a number.
func NumberCell(d decimal.Decimal) RawCell { return RawCell{Kind: CellNumber, Number: d} }

// TextCell wraps a string cell.
func TextCell(s string) RawCell {
	if s == "" {
		return EmptyCell()
	}
	return RawCell{Kind: CellText, Text: s}
}

// IsEmpty reports whether the cell carries no value.
func (c RawCell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way a reader of the sheet would see it.
func (c RawCell) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// CellRef is a cell together with its A1 reference.
type CellRef struct {
	Ref  string
	Cell RawCell
}
