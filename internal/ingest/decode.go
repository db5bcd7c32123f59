package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/normalize"
	"github.com/itechlabs/comercial-insights/internal/table"
)

// PrepareTransactions runs the full per-table pipeline for a sales-stage
// export: drop spreadsheet index columns, normalize headers, apply the
// synonym mapping, then decode into canonical rows tagged with the stage.
func PrepareTransactions(t *table.Table, stage domain.Stage) []domain.TransactionRow {
	t.DropUnnamedColumns()
	normalize.Headers(t)
	normalize.TransactionAliases().Apply(t)
	return decodeTransactions(t, stage)
}

// PrepareInventory runs the same pipeline for the stock export.
func PrepareInventory(t *table.Table) []domain.InventoryRow {
	t.DropUnnamedColumns()
	normalize.Headers(t)
	normalize.InventoryAliases().Apply(t)
	return decodeInventory(t)
}

func decodeTransactions(t *table.Table, stage domain.Stage) []domain.TransactionRow {
	idxDate := t.ColumnIndex(normalize.FieldDate)
	idxClient := t.ColumnIndex(normalize.FieldClient)
	idxRep := t.ColumnIndex(normalize.FieldRepresentative)
	idxProduct := t.ColumnIndex(normalize.FieldProduct)
	idxDesc := t.ColumnIndex(normalize.FieldProductDescription)
	idxQty := t.ColumnIndex(normalize.FieldQuantity)
	idxUnit := t.ColumnIndex(normalize.FieldUnitValue)

	rows := make([]domain.TransactionRow, 0, len(t.Rows))
	for ri := range t.Rows {
		row := domain.TransactionRow{
			Client:             strings.TrimSpace(t.Cell(ri, idxClient)),
			Representative:     strings.TrimSpace(t.Cell(ri, idxRep)),
			Product:            strings.TrimSpace(t.Cell(ri, idxProduct)),
			ProductDescription: strings.TrimSpace(t.Cell(ri, idxDesc)),
			Stage:              stage,
		}

		// Fully blank lines show up in exports below the data block.
		if row.Client == "" && row.Product == "" && strings.TrimSpace(t.Cell(ri, idxDate)) == "" {
			continue
		}

		if idxDate >= 0 {
			if d, ok := normalize.Date(t.Cell(ri, idxDate)); ok {
				row.Date = timePtr(d)
			}
		}
		if q, ok := parseNumber(t.Cell(ri, idxQty)); ok {
			row.Quantity = q
		}
		if v, ok := parseNumber(t.Cell(ri, idxUnit)); ok {
			row.UnitValue = &v
		}

		rows = append(rows, row)
	}
	return rows
}

func decodeInventory(t *table.Table) []domain.InventoryRow {
	idxMonth := t.ColumnIndex(normalize.FieldMonthYear)
	idxLocation := t.ColumnIndex(normalize.FieldLocation)
	idxProduct := t.ColumnIndex(normalize.FieldProduct)
	idxRef := t.ColumnIndex(normalize.FieldReference)
	idxDesc := t.ColumnIndex(normalize.FieldDescription)
	idxQty := t.ColumnIndex(normalize.FieldPhysicalQuantity)

	rows := make([]domain.InventoryRow, 0, len(t.Rows))
	for ri := range t.Rows {
		row := domain.InventoryRow{
			Product:     strings.TrimSpace(t.Cell(ri, idxProduct)),
			Reference:   strings.TrimSpace(t.Cell(ri, idxRef)),
			Description: strings.TrimSpace(t.Cell(ri, idxDesc)),
		}
		if row.Product == "" && row.Description == "" {
			continue
		}

		if m, ok := normalize.MonthYear(t.Cell(ri, idxMonth)); ok {
			row.MonthYear = timePtr(m)
		}
		if loc, err := strconv.Atoi(strings.TrimSpace(t.Cell(ri, idxLocation))); err == nil {
			row.Location = loc
		}
		if q, ok := parseNumber(t.Cell(ri, idxQty)); ok {
			row.PhysicalQuantity = q
		}

		rows = append(rows, row)
	}
	return rows
}

// parseNumber coerces a spreadsheet cell into a float. It tolerates both
// the Brazilian convention (1.234,56) and the plain one (1234.56 or
// 1,234.56). Empty or unparseable cells report false so missing values
// stay missing instead of becoming zero.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,56 -> 1234.56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56 -> 1234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// decimal comma
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func timePtr(t time.Time) *time.Time { return &t }
