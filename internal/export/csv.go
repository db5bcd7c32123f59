// Package export renders the report tables as CSV files for the CLI.
// Currency formatting is a presentation concern; values are written raw.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/itechlabs/comercial-insights/internal/domain"
)

// WriteReportCSVs writes one CSV per report table into dir, creating it
// when missing, and returns the written file paths.
func WriteReportCSVs(report *domain.Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	var written []string
	write := func(name string, header []string, rows [][]string) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		defer w.Flush()

		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		written = append(written, path)
		return nil
	}

	rows := make([][]string, 0, len(report.RepresentativeRanking))
	for _, r := range report.RepresentativeRanking {
		rows = append(rows, []string{r.Representative, formatFloat(r.TotalValue)})
	}
	if err := write("representative_ranking.csv", []string{"representative", "total_value"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.RevenueByRepMonth {
		rows = append(rows, []string{r.Representative, r.Month, formatFloat(r.TotalValue)})
	}
	if err := write("revenue_by_representative_month.csv", []string{"representative", "month", "total_value"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.RevenueByClientMonth {
		rows = append(rows, []string{r.Representative, r.Client, r.Month, formatFloat(r.TotalValue)})
	}
	if err := write("revenue_by_client_month.csv", []string{"representative", "client", "month", "total_value"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.ConversionRates {
		rows = append(rows, []string{r.Step, formatFloat(r.Rate)})
	}
	if err := write("conversion_rates.csv", []string{"step", "rate"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.MonthlyTrend {
		rows = append(rows, []string{r.Month, formatFloat(r.Quantity), formatFloat(r.TotalValue)})
	}
	if err := write("monthly_trend.csv", []string{"month", "quantity", "total_value"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.StockSummary {
		rows = append(rows, []string{r.Product, r.Reference, r.Description, formatFloat(r.Stock)})
	}
	if err := write("stock_summary.csv", []string{"product", "reference", "description", "stock"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.Consumption {
		stock := ""
		if r.Stock != nil {
			stock = formatFloat(*r.Stock)
		}
		rows = append(rows, []string{r.Client, r.Product, r.Reference, r.Description, formatFloat(r.MonthlyConsumption), stock, string(r.Condition)})
	}
	if err := write("consumption.csv", []string{"client", "product", "reference", "description", "monthly_consumption", "stock", "condition"}, rows); err != nil {
		return written, err
	}

	header := append([]string{"product", "reference", "description", "current_stock"}, report.Turnover.Months...)
	rows = rows[:0]
	for _, r := range report.Turnover.Rows {
		row := []string{r.Product, r.Reference, r.Description, formatFloat(r.Stock)}
		for _, q := range r.Quantities {
			row = append(row, formatFloat(q))
		}
		rows = append(rows, row)
	}
	if err := write("turnover.csv", header, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.DeadStock {
		rows = append(rows, []string{r.Product, r.Reference, r.Description, formatFloat(r.Stock)})
	}
	if err := write("dead_stock.csv", []string{"product", "reference", "description", "stock"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, c := range report.InactiveClients {
		rows = append(rows, []string{c})
	}
	if err := write("inactive_clients.csv", []string{"client"}, rows); err != nil {
		return written, err
	}

	rows = rows[:0]
	for _, r := range report.DecliningClients {
		rows = append(rows, []string{r.Client, "", "", formatFloat(r.Historical), formatFloat(r.Recent), formatFloat(r.Decline)})
		for _, p := range r.Products {
			rows = append(rows, []string{r.Client, p.Product, p.Description, formatFloat(p.Historical), formatFloat(p.Recent), formatFloat(p.Historical - p.Recent)})
		}
	}
	if err := write("declining_clients.csv", []string{"client", "product", "description", "historical_quantity", "recent_quantity", "decline"}, rows); err != nil {
		return written, err
	}

	return written, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
