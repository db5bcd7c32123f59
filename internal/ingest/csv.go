package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/itechlabs/comercial-insights/internal/table"
)

// ReadCSV reads a CSV stream into a raw table, skipping headerOffset rows
// of preamble before the header row. Ragged rows are tolerated.
func ReadCSV(r io.Reader, headerOffset int) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return tableFromRows(rows, headerOffset)
}

func readCSVFile(path string, headerOffset int) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, headerOffset)
}
