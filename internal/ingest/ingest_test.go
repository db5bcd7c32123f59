package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/table"
)

func TestReadCSV(t *testing.T) {
	data := "data,cliente,quantidade\n05/03/2024,ACME,2\n06/03/2024,BETA,3\n"
	tbl, err := ReadCSV(strings.NewReader(data), DefaultHeaderOffset)
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "cliente", "quantidade"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "ACME", tbl.Cell(0, 1))
}

func TestReadCSVHeaderOffset(t *testing.T) {
	data := "relatorio de faturamento\n,,\ndata,cliente\n05/03/2024,ACME\n"
	tbl, err := ReadCSV(strings.NewReader(data), 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "cliente"}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
}

func TestReadCSVOffsetBeyondRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("only,one,row\n"), 3)
	assert.Error(t, err)
}

func TestPrepareTransactions(t *testing.T) {
	tbl := table.New(
		[]string{"Unnamed: 0", "DT.FATURAM", "Razão Social", "QTD.ITEM", "VLR.UN", "PRODUTO", "DESC.PROD", "DESC.REPR/PREP"},
		[][]string{
			{"0", "05/03/2024", "ACME", "2", "10,50", "P1", "Widget", "Alice"},
			{"1", "garbled", "BETA", "10", "", "P2", "Gadget", "Bob"},
			{"2", "", "", "", "", "", "", ""}, // blank export line
		},
	)

	rows := PrepareTransactions(tbl, domain.StageInvoice)
	require.Len(t, rows, 2)

	first := rows[0]
	require.NotNil(t, first.Date)
	assert.Equal(t, "2024-03-05", first.Date.Format("2006-01-02"))
	assert.Equal(t, "ACME", first.Client)
	assert.Equal(t, "Alice", first.Representative)
	assert.Equal(t, 2.0, first.Quantity)
	require.NotNil(t, first.UnitValue)
	assert.Equal(t, 10.5, *first.UnitValue)
	require.NotNil(t, first.TotalValue())
	assert.Equal(t, 21.0, *first.TotalValue())
	assert.Equal(t, domain.StageInvoice, first.Stage)

	second := rows[1]
	assert.Nil(t, second.Date, "unparseable date stays nil")
	assert.Nil(t, second.UnitValue, "missing unit value stays nil")
	assert.Nil(t, second.TotalValue(), "nil unit value propagates to total")
	assert.Equal(t, 10.0, second.Quantity)
}

func TestPrepareTransactionsWithoutDateColumn(t *testing.T) {
	tbl := table.New(
		[]string{"cliente", "quantidade", "produto"},
		[][]string{{"ACME", "1", "P1"}},
	)
	rows := PrepareTransactions(tbl, domain.StageQuote)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Date)
	assert.Equal(t, domain.StageQuote, rows[0].Stage)
}

func TestPrepareInventory(t *testing.T) {
	tbl := table.New(
		[]string{"MÊS/ANO", "LOCAL", "PRODUTO", "REFERÊNCIA", "DESCRIÇÃO", "QTD.FÍSICA"},
		[][]string{
			{"03/2024", "49", "P1", "R1", "Widget", "12,5"},
			{"02/2024", "7", "P2", "R2", "Gadget", "4"},
			{"??", "x", "P3", "R3", "Bolt", ""},
		},
	)

	rows := PrepareInventory(tbl)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].MonthYear)
	assert.Equal(t, "2024-03", rows[0].MonthYear.Format("2006-01"))
	assert.Equal(t, 49, rows[0].Location)
	assert.Equal(t, 12.5, rows[0].PhysicalQuantity)

	assert.Nil(t, rows[2].MonthYear, "bad month stays nil")
	assert.Equal(t, 0, rows[2].Location)
	assert.Equal(t, 0.0, rows[2].PhysicalQuantity)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1234.56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"10,5", 10.5, true},
		{" 7 ", 7, true},
		{"-3,25", -3.25, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
