// cmd/insights/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/itechlabs/comercial-insights/internal/analysis"
	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/export"
	"github.com/itechlabs/comercial-insights/internal/ingest"
	"github.com/itechlabs/comercial-insights/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	logger.Setup("release")

	app := &cli.App{
		Name:  "insights",
		Usage: "Run the commercial analysis over the four spreadsheet exports",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze one upload batch and write report CSVs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "invoiced",
						Usage:    "Path to the invoiced sales export (faturado)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "quotes",
						Usage:    "Path to the quotes export (orcamento)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "orders",
						Usage:    "Path to the orders export (pedidos)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "inventory",
						Usage:    "Path to the inventory export (estoque)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location-class",
						Usage: "Inventory snapshot filter: all, reference or field",
						Value: "all",
					},
					&cli.IntFlag{
						Name:    "reference-location",
						Usage:   "Site code of the head-office location",
						Value:   49,
						EnvVars: []string{"ANALYSIS_REFERENCE_LOCATION"},
					},
					&cli.IntFlag{
						Name:    "window-months",
						Usage:   "Trailing window in months for decline and turnover",
						Value:   6,
						EnvVars: []string{"ANALYSIS_WINDOW_MONTHS"},
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Directory for the report CSVs",
						Value: "./reports",
					},
				},
				Action: runAnalyze,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("insights failed")
	}
}

func runAnalyze(c *cli.Context) error {
	input, err := loadBatch(c)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(c.Int("reference-location"), c.Int("window-months"))
	opts := domain.AnalysisOptions{LocationClass: domain.ParseLocationClass(c.String("location-class"))}

	report, err := engine.Run(input, opts)
	if err != nil {
		return err
	}

	written, err := export.WriteReportCSVs(report, c.String("out"))
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	log.Info().
		Str("reference_date", report.ReferenceDate.Format("2006-01-02")).
		Int("files", len(written)).
		Str("dir", c.String("out")).
		Msg("analysis written")
	for _, path := range written {
		fmt.Println(path)
	}
	return nil
}

func loadBatch(c *cli.Context) (domain.AnalysisInput, error) {
	var input domain.AnalysisInput

	invoiced, err := ingest.ReadFile(c.String("invoiced"), ingest.InvoiceHeaderOffset)
	if err != nil {
		return input, fmt.Errorf("read invoiced export: %w", err)
	}
	quotes, err := ingest.ReadFile(c.String("quotes"), ingest.DefaultHeaderOffset)
	if err != nil {
		return input, fmt.Errorf("read quotes export: %w", err)
	}
	orders, err := ingest.ReadFile(c.String("orders"), ingest.DefaultHeaderOffset)
	if err != nil {
		return input, fmt.Errorf("read orders export: %w", err)
	}
	inventory, err := ingest.ReadFile(c.String("inventory"), ingest.DefaultHeaderOffset)
	if err != nil {
		return input, fmt.Errorf("read inventory export: %w", err)
	}

	input.Invoices = ingest.PrepareTransactions(invoiced, domain.StageInvoice)
	input.Quotes = ingest.PrepareTransactions(quotes, domain.StageQuote)
	input.Orders = ingest.PrepareTransactions(orders, domain.StageOrder)
	input.Inventory = ingest.PrepareInventory(inventory)
	return input, nil
}
