// Package validation checks command-line inputs before any work is done.
package validation

import (
	"fmt"
	"os"
	"strings"

	"contajur/ledger/internal/fileutils"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// OutputFormats are the supported report output formats.
var OutputFormats = []string{"json", "text"}

// IsValidInputFile checks that path is a readable report upload.
func IsValidInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "file does not exist"}
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a regular file"}
	}
	if !fileutils.IsReportFile(path) {
		return &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: strings.Join(fileutils.ReportExtensions, " or "),
			Msg:            "unsupported file extension",
		}
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return &parsererror.ValidationError{
		Reason: fmt.Sprintf("unsupported output format %q, supported formats are %s", format, strings.Join(OutputFormats, ", ")),
	}
}

// IsValidWithdrawalAmount checks that amount is strictly positive.
func IsValidWithdrawalAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &parsererror.ValidationError{Reason: fmt.Sprintf("withdrawal amount must be positive, got %s", amount)}
	}
	return nil
}

// IsValidWithdrawalPerson resolves name to a partner that may withdraw.
func IsValidWithdrawalPerson(name string) (models.Partner, error) {
	p, err := models.ParsePartner(name)
	if err != nil {
		return "", &parsererror.ValidationError{Reason: err.Error()}
	}
	if !p.TakesWithdrawals() {
		return "", &parsererror.ValidationError{Reason: fmt.Sprintf("%s cannot take withdrawals", p)}
	}
	return p, nil
}
