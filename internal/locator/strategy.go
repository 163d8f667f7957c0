package locator

import (
	"fmt"
	"strings"

	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"
	"contajur/ledger/internal/sheet"

	"github.com/xuri/excelize/v2"
)

// Strategy names
const (
	StrategyMarker = "marker"
	StrategyFixed  = "fixed"
)

// Extraction is what a strategy pulls out of a sheet before any numeric
// normalization.
type Extraction struct {
	RevenueCells []models.CellRef
	ExpenseCells []models.CellRef
	Items        []models.ItemRow
}

// Strategy finds the totals and the itemized rows of one report layout.
type Strategy interface {
	Name() string
	Extract(g *sheet.Grid) (Extraction, error)
}

// MarkerStrategy locates totals by searching a column for text labels.
// Rows are 1-based sheet rows and columns are letters.
type MarkerStrategy struct {
	Column            string   // column holding the labels, e.g. "K"
	ValueColumns      []string // columns summed on the label row, e.g. "L", "M"
	RevenueLabel      string
	ExpenseLabel      string
	HeaderRow         int // row holding the item headers
	DescriptionHeader string
	TotalHeader       string
}

// DefaultMarkerStrategy returns the layout of the standard monthly report.
func DefaultMarkerStrategy() *MarkerStrategy {
	return &MarkerStrategy{
		Column:            "K",
		ValueColumns:      []string{"L", "M"},
		RevenueLabel:      "Receitas:",
		ExpenseLabel:      "Despesas:",
		HeaderRow:         2,
		DescriptionHeader: "Descrição",
		TotalHeader:       "Total",
	}
}

func (s *MarkerStrategy) Name() string {
	return StrategyMarker
}

func (s *MarkerStrategy) Extract(g *sheet.Grid) (Extraction, error) {
	labelCol, err := columnIndex(s.Column)
	if err != nil {
		return Extraction{}, err
	}
	valueCols := make([]int, 0, len(s.ValueColumns))
	for _, name := range s.ValueColumns {
		c, err := columnIndex(name)
		if err != nil {
			return Extraction{}, err
		}
		valueCols = append(valueCols, c)
	}
	headerIdx := s.HeaderRow - 1
	if headerIdx < 0 {
		return Extraction{}, fmt.Errorf("invalid header row %d", s.HeaderRow)
	}

	descCol, ok := findHeader(g, headerIdx, s.DescriptionHeader)
	if !ok {
		return Extraction{}, s.missing(g, s.DescriptionHeader, fmt.Sprintf("row %d", s.HeaderRow))
	}
	totalCol, ok := findHeader(g, headerIdx, s.TotalHeader)
	if !ok {
		return Extraction{}, s.missing(g, s.TotalHeader, fmt.Sprintf("row %d", s.HeaderRow))
	}

	revenueRow, ok := findLabel(g, labelCol, headerIdx+1, s.RevenueLabel)
	if !ok {
		return Extraction{}, s.missing(g, s.RevenueLabel, "column "+strings.ToUpper(s.Column))
	}
	expenseRow, ok := findLabel(g, labelCol, headerIdx+1, s.ExpenseLabel)
	if !ok {
		return Extraction{}, s.missing(g, s.ExpenseLabel, "column "+strings.ToUpper(s.Column))
	}

	return Extraction{
		RevenueCells: rowCells(g, revenueRow, valueCols),
		ExpenseCells: rowCells(g, expenseRow, valueCols),
		Items:        itemRows(g, headerIdx+1, descCol, totalCol),
	}, nil
}

func (s *MarkerStrategy) missing(g *sheet.Grid, marker, location string) error {
	return &parsererror.LayoutError{
		Strategy: StrategyMarker,
		Sheet:    g.Name,
		Marker:   marker,
		Location: location,
	}
}

// FixedOffsetStrategy reads totals from fixed cells and items from fixed
// columns, for report revisions without labels.
type FixedOffsetStrategy struct {
	RevenueCell       string // A1 reference, e.g. "M40"
	ExpenseCell       string
	DescriptionColumn string
	TotalColumn       string
	FirstItemRow      int // 1-based
	LastItemRow       int // 1-based, 0 reads to the end of the sheet
}

func (s *FixedOffsetStrategy) Name() string {
	return StrategyFixed
}

func (s *FixedOffsetStrategy) Extract(g *sheet.Grid) (Extraction, error) {
	revenue, err := s.fixedCell(g, s.RevenueCell)
	if err != nil {
		return Extraction{}, err
	}
	expense, err := s.fixedCell(g, s.ExpenseCell)
	if err != nil {
		return Extraction{}, err
	}
	descCol, err := columnIndex(s.DescriptionColumn)
	if err != nil {
		return Extraction{}, err
	}
	totalCol, err := columnIndex(s.TotalColumn)
	if err != nil {
		return Extraction{}, err
	}
	if s.FirstItemRow < 1 {
		return Extraction{}, fmt.Errorf("invalid first item row %d", s.FirstItemRow)
	}

	items := itemRows(g, s.FirstItemRow-1, descCol, totalCol)
	if s.LastItemRow > 0 {
		kept := items[:0]
		for _, it := range items {
			if it.Row <= s.LastItemRow {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	return Extraction{
		RevenueCells: []models.CellRef{revenue},
		ExpenseCells: []models.CellRef{expense},
		Items:        items,
	}, nil
}

func (s *FixedOffsetStrategy) fixedCell(g *sheet.Grid, ref string) (models.CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(ref))
	if err != nil {
		return models.CellRef{}, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	if !g.Contains(row-1, col-1) {
		return models.CellRef{}, &parsererror.LayoutError{
			Strategy: StrategyFixed,
			Sheet:    g.Name,
			Marker:   ref,
			Location: fmt.Sprintf("%d rows x %d columns", g.NumRows(), g.NumCols()),
			Reason:   "cell is outside the sheet",
		}
	}
	return models.CellRef{Ref: strings.ToUpper(strings.TrimSpace(ref)), Cell: g.Cell(row-1, col-1)}, nil
}

func columnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", name, err)
	}
	return n - 1, nil
}

func cellName(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return name
}

func findHeader(g *sheet.Grid, row int, header string) (int, bool) {
	for c := 0; c < g.NumCols(); c++ {
		if strings.TrimSpace(g.Cell(row, c).String()) == header {
			return c, true
		}
	}
	return 0, false
}

func findLabel(g *sheet.Grid, col, from int, label string) (int, bool) {
	for r := from; r < g.NumRows(); r++ {
		if strings.TrimSpace(g.Cell(r, col).String()) == label {
			return r, true
		}
	}
	return 0, false
}

func rowCells(g *sheet.Grid, row int, cols []int) []models.CellRef {
	out := make([]models.CellRef, 0, len(cols))
	for _, c := range cols {
		out = append(out, models.CellRef{Ref: cellName(row, c), Cell: g.Cell(row, c)})
	}
	return out
}

func itemRows(g *sheet.Grid, from, descCol, totalCol int) []models.ItemRow {
	var items []models.ItemRow
	for r := from; r < g.NumRows(); r++ {
		desc := strings.TrimSpace(g.Cell(r, descCol).String())
		if desc == "" {
			continue
		}
		items = append(items, models.ItemRow{
			Row:         r + 1,
			Description: desc,
			Total:       g.Cell(r, totalCol),
			TotalRef:    cellName(r, totalCol),
		})
	}
	return items
}

// ForName returns the configured strategy named name.
func ForName(name string, marker *MarkerStrategy, fixed *FixedOffsetStrategy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyMarker, "":
		if marker == nil {
			marker = DefaultMarkerStrategy()
		}
		return marker, nil
	case StrategyFixed:
		if fixed == nil {
			return nil, fmt.Errorf("fixed layout strategy selected but not configured")
		}
		return fixed, nil
	default:
		return nil, fmt.Errorf("unknown layout strategy %q", name)
	}
}
