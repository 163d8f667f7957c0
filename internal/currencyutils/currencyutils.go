// Package currencyutils turns spreadsheet cells into exact decimal amounts.
//
// Report sheets are typed by hand in the Brazilian locale: "." groups
// thousands and "," separates decimals ("1.234,56"). Normalization is lenient:
// a cell that cannot be read counts as zero and the failure is handed back to
// the caller as a diagnostic instead of aborting the import.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

var (
	symbolRe        = regexp.MustCompile(`(?i)r\$|brl|[\s\x{00A0}]`)
	thousandsOnlyRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	machineRe       = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	hundred         = decimal.NewFromInt(100)
)

// Normalize converts a cell to a decimal. Empty cells are zero, numeric cells
// pass through, text is read as a locale amount. On failure it returns zero and
// a NumericCoercionFailure describing the cell.
func Normalize(cell models.RawCell) (decimal.Decimal, *parsererror.NumericCoercionFailure) {
	return NormalizeAt(cell, "")
}

// NormalizeAt is Normalize with the A1 reference of the cell, used in the
// diagnostic.
func NormalizeAt(cell models.RawCell, ref string) (decimal.Decimal, *parsererror.NumericCoercionFailure) {
	switch cell.Kind {
	case models.CellEmpty:
		return decimal.Zero, nil
	case models.CellNumber:
		return cell.Number, nil
	}

	text := strings.TrimSpace(cell.Text)
	if text == "" || strings.EqualFold(text, "nan") {
		return decimal.Zero, nil
	}
	amount, err := ParseAmount(text)
	if err != nil {
		return decimal.Zero, &parsererror.NumericCoercionFailure{Cell: ref, Value: cell.Text, Err: err}
	}
	return amount, nil
}

// NormalizeAll normalizes a batch of cells and returns their values in order
// together with the failures.
func NormalizeAll(cells []models.CellRef) ([]decimal.Decimal, parsererror.Diagnostics) {
	values := make([]decimal.Decimal, len(cells))
	var diags parsererror.Diagnostics
	for i, c := range cells {
		v, failure := NormalizeAt(c.Cell, c.Ref)
		if failure != nil {
			diags.Add(failure)
		}
		values[i] = v
	}
	return values, diags
}

// Sum adds decimals.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// ParseAmount parses a locale-formatted amount strictly. It accepts
// "1.234,56", "R$ 1.234,56", "-10,5", "(10,50)", "1.234" (thousands) and plain
// machine decimals such as "1234.5".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized, err := StandardizeAmount(amountStr)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites a locale amount into the form accepted by
// decimal.NewFromString.
func StandardizeAmount(amountStr string) (string, error) {
	s := symbolRe.ReplaceAllString(strings.TrimSpace(amountStr), "")
	if s == "" {
		return "", fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	switch {
	case strings.Count(s, ",") > 1:
		return "", fmt.Errorf("amount '%s' has more than one decimal comma", amountStr)
	case strings.Contains(s, ","):
		intPart, frac, _ := strings.Cut(s, ",")
		if strings.Contains(frac, ".") {
			return "", fmt.Errorf("amount '%s' has a dot after the decimal comma", amountStr)
		}
		s = strings.ReplaceAll(intPart, ".", "") + "." + frac
	case thousandsOnlyRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	if !machineRe.MatchString(s) {
		return "", fmt.Errorf("amount '%s' is not a number", amountStr)
	}
	if negative {
		s = "-" + s
	}
	return s, nil
}

// FormatLocale renders d with two decimals in the report locale, e.g.
// "1.234,56". ParseAmount(FormatLocale(d)) == d.Round(2).
func FormatLocale(d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3 + 4)
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatBRL renders d as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + FormatLocale(d)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
