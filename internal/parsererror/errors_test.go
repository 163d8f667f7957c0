package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutError(t *testing.T) {
	tests := []struct {
		name     string
		err      *LayoutError
		expected string
	}{
		{
			name: "missing marker",
			err: &LayoutError{
				Strategy: "marker",
				Sheet:    "Página 1",
				Marker:   "Receitas:",
				Location: "column K",
			},
			expected: `marker layout: marker "Receitas:" not found in column K of sheet "Página 1"`,
		},
		{
			name: "fixed cell outside sheet",
			err: &LayoutError{
				Strategy: "fixed",
				Marker:   "revenue",
				Location: "M40",
				Reason:   "sheet has 12 rows",
			},
			expected: `fixed layout: marker "revenue" not found in M40: sheet has 12 rows`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNumericCoercionFailure_Unwrap(t *testing.T) {
	cause := errors.New("bad digits")
	err := &NumericCoercionFailure{Cell: "L7", Value: "abc", Err: cause}

	assert.Equal(t, `cell L7: value "abc" is not a number, counted as 0: bad digits`, err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestStoreFailure(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("import: %w", &StoreFailure{Op: "replace_period", Period: "2025-07", Err: cause})

	var sf *StoreFailure
	require.True(t, errors.As(err, &sf))
	assert.Equal(t, "replace_period", sf.Op)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "import: store replace_period 2025-07: disk full", err.Error())
}

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	err := fmt.Errorf("delete: %w", &NotFoundError{Kind: "withdrawal", Key: "42"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "delete: withdrawal 42 not found", err.Error())
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation failed for r.xlsx: empty file",
		(&ValidationError{FilePath: "r.xlsx", Reason: "empty file"}).Error())
	assert.Equal(t, "validation failed: amount must be positive",
		(&ValidationError{Reason: "amount must be positive"}).Error())
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{FilePath: "r.pdf", ExpectedFormat: ".xlsx or .csv", Msg: "unsupported extension"}
	assert.Equal(t, "invalid format in file 'r.pdf': unsupported extension. Expected: .xlsx or .csv", err.Error())
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	d.Add(nil)
	d.Add(&NumericCoercionFailure{Value: "x", Err: errors.New("e")})
	d.Add(&UncategorizedRow{Row: 9, Description: "Miscellaneous XYZ"})
	d.Add(&NumericCoercionFailure{Value: "y", Err: errors.New("e")})

	assert.Len(t, d, 3)
	assert.Len(t, d.NumericFailures(), 2)
	require.Len(t, d.Uncategorized(), 1)
	assert.Equal(t, "Miscellaneous XYZ", d.Uncategorized()[0].Description)
}

func TestInvalidFormatError_Unwrap(t *testing.T) {
	cause := errors.New("bare quote")
	err := &InvalidFormatError{FilePath: "x.csv", ExpectedFormat: "csv", Msg: "malformed csv", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bare quote")
}

func TestPeriodFallback(t *testing.T) {
	err := &PeriodFallback{Source: "filename", Period: "2025-07"}
	assert.Equal(t, "no date range in sheet header, period 2025-07 taken from filename", err.Error())
}
