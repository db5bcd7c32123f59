package analysis

import (
	"math"
	"sort"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/normalize"
)

// Consumption computes each client's mean monthly consumed quantity per
// product over the invoice history and joins it against current stock.
// The mean runs over months that actually have at least one row; silent
// months are not inserted as zeros. Stock is matched by product and
// description only, never by client, since stock is not client-specific;
// when several snapshot rows share product and description (distinct
// references) the consumption row is repeated per match, mirroring a left
// join. The borderline case compares the rounded mean against stock with
// literal equality.
func Consumption(invoices []domain.TransactionRow, snapshot []domain.StockSummary) []domain.ConsumptionRow {
	type consumptionKey struct {
		client      string
		product     string
		description string
	}
	type monthKey struct {
		consumptionKey
		month string
	}

	// Quantity per (month, client, product); rows without a date have no
	// month bucket and drop out here.
	perMonth := make(map[monthKey]float64)
	for _, r := range invoices {
		if r.Date == nil {
			continue
		}
		k := monthKey{
			consumptionKey: consumptionKey{client: r.Client, product: r.Product, description: r.ProductDescription},
			month:          normalize.MonthKey(*r.Date),
		}
		perMonth[k] += r.Quantity
	}

	sums := make(map[consumptionKey]float64)
	months := make(map[consumptionKey]int)
	for k, qty := range perMonth {
		sums[k.consumptionKey] += qty
		months[k.consumptionKey]++
	}

	// Stock lookup by (product, description); a product code with several
	// references yields several entries.
	type stockKey struct{ product, description string }
	stocks := make(map[stockKey][]domain.StockSummary)
	for _, s := range snapshot {
		k := stockKey{product: s.Product, description: s.Description}
		stocks[k] = append(stocks[k], s)
	}

	keys := make([]consumptionKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].client != keys[j].client {
			return keys[i].client < keys[j].client
		}
		if keys[i].product != keys[j].product {
			return keys[i].product < keys[j].product
		}
		return keys[i].description < keys[j].description
	})

	out := make([]domain.ConsumptionRow, 0, len(keys))
	for _, k := range keys {
		mean := roundTo(sums[k]/float64(months[k]), 2)

		matches := stocks[stockKey{product: k.product, description: k.description}]
		if len(matches) == 0 {
			out = append(out, domain.ConsumptionRow{
				Client:             k.client,
				Product:            k.product,
				Description:        k.description,
				MonthlyConsumption: mean,
				Condition:          domain.ConditionUnknown,
			})
			continue
		}
		for _, s := range matches {
			stock := s.Stock
			out = append(out, domain.ConsumptionRow{
				Client:             k.client,
				Product:            k.product,
				Reference:          s.Reference,
				Description:        k.description,
				MonthlyConsumption: mean,
				Stock:              &stock,
				Condition:          classify(stock, mean),
			})
		}
	}
	return out
}

func classify(stock, consumption float64) domain.Condition {
	switch {
	case stock > consumption:
		return domain.ConditionHealthy
	case stock == consumption:
		return domain.ConditionBorderline
	default:
		return domain.ConditionCritical
	}
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
