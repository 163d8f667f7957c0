// Package common provides the CSV plumbing shared by the export and batch
// withdrawal commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"contajur/ledger/internal/fileutils"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the CSV field separator used for output.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter sets the delimiter for CSV input and output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ExpenseRecord is the CSV shape of one stored expense line.
type ExpenseRecord struct {
	Period      string `csv:"period"`
	Category    string `csv:"category"`
	Subcategory string `csv:"subcategory"`
	Amount      string `csv:"amount"`
}

// WithdrawalRecord is one row of a manual withdrawal batch file.
// Amount accepts either decimal notation ("1234.50" or "1.234,50").
type WithdrawalRecord struct {
	Period string `csv:"period"`
	Person string `csv:"person"`
	Amount string `csv:"amount"`
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Info("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(newReader(file), &rows); err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

func newReader(r io.Reader) gocsv.CSVReader {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.TrimLeadingSpace = true
	return reader
}

// ToExpenseRecords converts lines, fixing amounts to two decimals.
func ToExpenseRecords(lines []models.ExpenseLine) []ExpenseRecord {
	records := make([]ExpenseRecord, 0, len(lines))
	for _, l := range lines {
		records = append(records, ExpenseRecord{
			Period:      l.Period.String(),
			Category:    l.Category,
			Subcategory: l.Subcategory,
			Amount:      l.Amount.StringFixed(2),
		})
	}
	return records
}

// ExportExpenses writes lines as CSV to w, header first.
func ExportExpenses(w io.Writer, lines []models.ExpenseLine) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter

	records := ToExpenseRecords(lines)
	if err := gocsv.MarshalCSV(&records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteExpensesToCSV writes lines to csvFile, creating its directory.
func WriteExpensesToCSV(lines []models.ExpenseLine, csvFile string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Info("Writing expense lines to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(lines)})

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := ExportExpenses(file, lines); err != nil {
		logger.WithError(err).Error("Failed to marshal expense lines to CSV")
		return err
	}
	return nil
}
