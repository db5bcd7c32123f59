package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechlabs/comercial-insights/internal/domain"
)

func TestWriteReportCSVs(t *testing.T) {
	stock := 7.0
	report := &domain.Report{
		GeneratedAt:      time.Now(),
		ReferenceDate:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		LatestStockMonth: "2024-06",
		RepresentativeRanking: []domain.RepresentativeRevenue{
			{Representative: "Alice", TotalValue: 150.5},
		},
		ConversionRates: []domain.ConversionRate{
			{Step: "quote->order", Rate: 0.5},
			{Step: "order->invoice", Rate: 1},
		},
		Turnover: domain.TurnoverPivot{
			Months: []string{"2024-05", "2024-06"},
			Rows: []domain.TurnoverRow{
				{Product: "P1", Reference: "R1", Description: "Widget", Stock: 7, Quantities: []float64{0, 3}},
			},
		},
		Consumption: []domain.ConsumptionRow{
			{Client: "ACME", Product: "P1", Reference: "R1", Description: "Widget", MonthlyConsumption: 1.5, Stock: &stock, Condition: domain.ConditionHealthy},
			{Client: "BETA", Product: "P9", Description: "Ghost", MonthlyConsumption: 2, Condition: domain.ConditionUnknown},
		},
		DecliningClients: []domain.ClientDecline{
			{
				Client: "GONE", Historical: 100, Recent: 0, Decline: 100,
				Products: []domain.ProductDecline{{Product: "P2", Description: "Gadget", Historical: 100, Recent: 0}},
			},
		},
	}

	dir := t.TempDir()
	written, err := WriteReportCSVs(report, dir)
	require.NoError(t, err)
	assert.Len(t, written, 11, "one file per report table")

	ranking := readCSV(t, filepath.Join(dir, "representative_ranking.csv"))
	require.Len(t, ranking, 2)
	assert.Equal(t, []string{"representative", "total_value"}, ranking[0])
	assert.Equal(t, []string{"Alice", "150.5"}, ranking[1])

	turnover := readCSV(t, filepath.Join(dir, "turnover.csv"))
	assert.Equal(t, []string{"product", "reference", "description", "current_stock", "2024-05", "2024-06"}, turnover[0])
	assert.Equal(t, []string{"P1", "R1", "Widget", "7", "0", "3"}, turnover[1])

	consumption := readCSV(t, filepath.Join(dir, "consumption.csv"))
	require.Len(t, consumption, 3)
	assert.Equal(t, "healthy", consumption[1][6])
	assert.Equal(t, "", consumption[2][5], "missing stock written empty")

	declining := readCSV(t, filepath.Join(dir, "declining_clients.csv"))
	require.Len(t, declining, 3, "client row plus one product row")
	assert.Equal(t, "GONE", declining[1][0])
	assert.Equal(t, "P2", declining[2][1])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
