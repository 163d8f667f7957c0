// Package sheet loads spreadsheet uploads into an untyped cell grid.
package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Grid is a rectangular-ish view over one worksheet. Rows may be ragged;
// reads outside the stored area return an empty cell.
type Grid struct {
	Name string
	rows [][]models.RawCell
}

// FromRows builds a grid from already typed cells.
func FromRows(name string, rows [][]models.RawCell) *Grid {
	return &Grid{Name: name, rows: rows}
}

// FromStrings builds a grid where every non-blank value is a text cell.
func FromStrings(name string, rows [][]string) *Grid {
	out := make([][]models.RawCell, len(rows))
	for r, row := range rows {
		out[r] = make([]models.RawCell, len(row))
		for c, v := range row {
			out[r][c] = models.TextCell(v)
		}
	}
	return FromRows(name, out)
}

// NumRows returns the number of stored rows.
func (g *Grid) NumRows() int {
	return len(g.rows)
}

// NumCols returns the width of the widest row.
func (g *Grid) NumCols() int {
	width := 0
	for _, row := range g.rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the cell at 0-based (row, col).
func (g *Grid) Cell(row, col int) models.RawCell {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return models.EmptyCell()
	}
	return g.rows[row][col]
}

// Contains reports whether 0-based (row, col) lies inside the used range of
// the sheet.
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < len(g.rows) && col >= 0 && col < g.NumCols()
}

// CellAt resolves an A1 reference such as "M40".
func (g *Grid) CellAt(ref string) (models.RawCell, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(ref))
	if err != nil {
		return models.EmptyCell(), fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	return g.Cell(row-1, col-1), nil
}

// Open dispatches on the file extension. Only .xlsx and .csv are accepted.
func Open(r io.Reader, filename, sheetName string) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return OpenXLSX(r, sheetName)
	case ".csv":
		return OpenCSV(r, filename)
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       filename,
			ExpectedFormat: "xlsx or csv",
			Msg:            "unsupported file extension",
		}
	}
}

// OpenXLSX reads the named worksheet. When the workbook has no sheet with
// that name the first sheet is used; Grid.Name tells which one was read.
func OpenXLSX(r io.Reader, sheetName string) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := sheets[0]
	for _, s := range sheets {
		if s == sheetName {
			name = s
			break
		}
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", name, err)
	}

	grid := make([][]models.RawCell, len(rows))
	for r, row := range rows {
		grid[r] = make([]models.RawCell, len(row))
		for c, v := range row {
			grid[r][c] = typedCell(f, name, r, c, v)
		}
	}
	return FromRows(name, grid), nil
}

// typedCell keeps spreadsheet numbers as numbers and everything else as text.
func typedCell(f *excelize.File, sheetName string, r, c int, v string) models.RawCell {
	if strings.TrimSpace(v) == "" {
		return models.EmptyCell()
	}
	ref, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return models.TextCell(v)
	}
	kind, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return models.TextCell(v)
	}
	switch kind {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula:
		if d, err := decimal.NewFromString(v); err == nil {
			return models.NumberCell(d)
		}
	}
	return models.TextCell(v)
}

// OpenCSV reads a delimited export of the sheet. The delimiter is sniffed
// from the first line and Windows-1252 input is transcoded to UTF-8.
func OpenCSV(r io.Reader, name string) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		data, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("error decoding csv: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "csv",
			Msg:            "malformed csv",
			Err:            err,
		}
	}
	return FromStrings(filepath.Base(name), records), nil
}

func sniffDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
