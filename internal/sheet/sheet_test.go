package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheetName string, cells map[string]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue(sheetName, ref, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestOpenXLSX_TypesCells(t *testing.T) {
	buf := buildWorkbook(t, models.DefaultSheetName, map[string]interface{}{
		"A1":  "01/07/2025 à 31/07/2025",
		"K5":  "Receitas:",
		"L5":  45000.5,
		"M5":  5000,
		"A10": "Aluguel",
		"B10": "1.234,56",
	})

	grid, err := OpenXLSX(buf, models.DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSheetName, grid.Name)

	assert.Equal(t, models.TextCell("01/07/2025 à 31/07/2025"), grid.Cell(0, 0))
	assert.Equal(t, models.CellText, grid.Cell(4, 10).Kind)

	l5 := grid.Cell(4, 11)
	assert.Equal(t, models.CellNumber, l5.Kind)
	assert.True(t, l5.Number.Equal(decimal.RequireFromString("45000.5")))
	assert.True(t, grid.Cell(4, 12).Number.Equal(decimal.NewFromInt(5000)))

	b10 := grid.Cell(9, 1)
	assert.Equal(t, models.CellText, b10.Kind)
	assert.Equal(t, "1.234,56", b10.Text)

	assert.True(t, grid.Cell(1, 1).IsEmpty())
	assert.True(t, grid.Cell(500, 500).IsEmpty())
	assert.True(t, grid.Cell(-1, 0).IsEmpty())
}

func TestOpenXLSX_FallsBackToFirstSheet(t *testing.T) {
	buf := buildWorkbook(t, "Relatorio", map[string]interface{}{"A1": "x"})

	grid, err := OpenXLSX(buf, models.DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, "Relatorio", grid.Name)
	assert.Equal(t, "x", grid.Cell(0, 0).Text)
}

func TestOpenXLSX_Garbage(t *testing.T) {
	_, err := OpenXLSX(strings.NewReader("not a zip"), models.DefaultSheetName)
	assert.Error(t, err)
}

func TestOpenCSV(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "semicolon", input: []byte("Descrição;Total\nAluguel;1.234,56\n")},
		{name: "comma with bom", input: []byte("\xef\xbb\xbfDescrição,Total\nAluguel,\"1.234,56\"\n")},
		{name: "windows-1252", input: []byte("Descri\xe7\xe3o;Total\nAluguel;1.234,56\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := OpenCSV(bytes.NewReader(tt.input), "julho.csv")
			require.NoError(t, err)
			assert.Equal(t, "julho.csv", grid.Name)
			assert.Equal(t, 2, grid.NumRows())
			assert.Equal(t, "Descrição", grid.Cell(0, 0).Text)
			assert.Equal(t, "1.234,56", grid.Cell(1, 1).Text)
		})
	}
}

func TestOpenCSV_RaggedRows(t *testing.T) {
	grid, err := OpenCSV(strings.NewReader("a;b;c\nd\n;;;e\n"), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, 4, grid.NumCols())
	assert.True(t, grid.Cell(1, 2).IsEmpty())
	assert.Equal(t, "e", grid.Cell(2, 3).Text)
}

func TestOpen_RejectsUnknownExtension(t *testing.T) {
	_, err := Open(strings.NewReader(""), "report.pdf", models.DefaultSheetName)
	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "report.pdf", formatErr.FilePath)
}

func TestGrid_CellAt(t *testing.T) {
	grid := FromStrings("s", [][]string{
		{"a", "b"},
		{"c", "d"},
	})

	cell, err := grid.CellAt("B2")
	require.NoError(t, err)
	assert.Equal(t, "d", cell.Text)

	cell, err = grid.CellAt("Z99")
	require.NoError(t, err)
	assert.True(t, cell.IsEmpty())

	_, err = grid.CellAt("not-a-cell")
	assert.Error(t, err)
}
