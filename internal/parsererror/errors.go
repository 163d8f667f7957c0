package parsererror

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// LayoutError reports a required marker, header or cell that is not where the
// selected layout strategy expects it. It aborts the import.
type LayoutError struct {
	Strategy string
	Sheet    string
	Marker   string // label or header text that was searched for
	Location string // column or cell that was searched, e.g. "column K" or "M40"
	Reason   string
}

func (e *LayoutError) Error() string {
	msg := fmt.Sprintf("%s layout: marker %q not found in %s", e.Strategy, e.Marker, e.Location)
	if e.Sheet != "" {
		msg += fmt.Sprintf(" of sheet %q", e.Sheet)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// NumericCoercionFailure records a cell that could not be read as a number and
// was counted as zero. It is a diagnostic: the import goes on.
type NumericCoercionFailure struct {
	Cell  string // A1 reference when known
	Value string
	Err   error
}

func (e *NumericCoercionFailure) Error() string {
	if e.Cell != "" {
		return fmt.Sprintf("cell %s: value %q is not a number, counted as 0: %v", e.Cell, e.Value, e.Err)
	}
	return fmt.Sprintf("value %q is not a number, counted as 0: %v", e.Value, e.Err)
}

func (e *NumericCoercionFailure) Unwrap() error {
	return e.Err
}

// UncategorizedRow records an item row whose description matched no category.
// The row is left out of the ledger.
type UncategorizedRow struct {
	Row         int
	Description string
}

func (e *UncategorizedRow) Error() string {
	return fmt.Sprintf("row %d: %q matches no category, skipped", e.Row, e.Description)
}

// PeriodFallback records that the sheet carried no date range and the period
// was taken from another source.
type PeriodFallback struct {
	Source string // "filename" or "clock"
	Period string
}

func (e *PeriodFallback) Error() string {
	return fmt.Sprintf("no date range in sheet header, period %s taken from %s", e.Period, e.Source)
}

// StoreFailure wraps a failed ledger store operation. The store guarantees the
// failed operation left nothing behind.
type StoreFailure struct {
	Op     string
	Period string
	Err    error
}

func (e *StoreFailure) Error() string {
	if e.Period != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.Period, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreFailure) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing period or withdrawal.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s: %v",
			e.FilePath, e.Msg, e.ExpectedFormat, e.Err)
	}
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// Diagnostics collects the non-fatal findings of one import.
type Diagnostics []error

// Add appends err when it is not nil.
func (d *Diagnostics) Add(err error) {
	if err != nil {
		*d = append(*d, err)
	}
}

// NumericFailures returns the coercion diagnostics.
func (d Diagnostics) NumericFailures() []*NumericCoercionFailure {
	var out []*NumericCoercionFailure
	for _, err := range d {
		var nf *NumericCoercionFailure
		if errors.As(err, &nf) {
			out = append(out, nf)
		}
	}
	return out
}

// Uncategorized returns the skipped-row diagnostics.
func (d Diagnostics) Uncategorized() []*UncategorizedRow {
	var out []*UncategorizedRow
	for _, err := range d {
		var ur *UncategorizedRow
		if errors.As(err, &ur) {
			out = append(out, ur)
		}
	}
	return out
}
