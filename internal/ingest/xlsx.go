// Package ingest reads the raw spreadsheet exports into tables and decodes
// them, after normalization, into the canonical record types.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/itechlabs/comercial-insights/internal/table"
)

// Header row offsets of the fixed export layouts. The invoice export has
// six preamble rows before the header.
const (
	InvoiceHeaderOffset = 5
	DefaultHeaderOffset = 0
)

// ReadXLSX reads the first sheet of an XLSX stream into a raw table,
// skipping headerOffset rows of preamble before the header row.
func ReadXLSX(r io.Reader, headerOffset int) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	return tableFromRows(rows, headerOffset)
}

// ReadFile reads a local spreadsheet by extension: .xlsx via excelize,
// anything else as CSV.
func ReadFile(path string, headerOffset int) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open xlsx file %s: %w", path, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx file %s has no sheets", path)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read rows from %s: %w", path, err)
		}
		return tableFromRows(rows, headerOffset)
	}
	return readCSVFile(path, headerOffset)
}

func tableFromRows(rows [][]string, headerOffset int) (*table.Table, error) {
	if headerOffset < 0 {
		headerOffset = 0
	}
	if len(rows) <= headerOffset {
		return nil, fmt.Errorf("sheet has %d rows, header expected at row %d", len(rows), headerOffset+1)
	}
	return table.New(rows[headerOffset], rows[headerOffset+1:]), nil
}
