package analysis

import (
	"time"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/normalize"
)

// Turnover builds the per-product monthly sold-quantity pivot over the
// trailing six complete months plus the current month, anchored at the
// reference date, left-joined over every product in the snapshot so that
// products with zero sales still appear with quantity 0. Current stock is
// appended per row. It also flags dead stock: product triples with zero
// movement across every bucket while holding strictly positive stock.
func (e *Engine) Turnover(invoices []domain.TransactionRow, snapshot []domain.StockSummary, refDate time.Time) (domain.TurnoverPivot, []domain.DeadStockItem) {
	anchor := normalize.MonthStart(refDate)
	buckets := e.windowMonths + 1
	months := make([]time.Time, buckets)
	labels := make([]string, buckets)
	for i := 0; i < buckets; i++ {
		months[i] = anchor.AddDate(0, i-e.windowMonths, 0)
		labels[i] = normalize.MonthKey(months[i])
	}
	earliest := months[0]

	// Sold quantity per (month, product, description). Stock is not keyed
	// by reference on the sales side; the reference column rides along
	// from the snapshot.
	type salesKey struct {
		month       string
		product     string
		description string
	}
	sales := make(map[salesKey]float64)
	for _, r := range invoices {
		if r.Date == nil || r.Date.Before(earliest) {
			continue
		}
		k := salesKey{
			month:       normalize.MonthKey(normalize.MonthStart(*r.Date)),
			product:     r.Product,
			description: r.ProductDescription,
		}
		sales[k] += r.Quantity
	}

	pivot := domain.TurnoverPivot{
		Months: labels,
		Rows:   make([]domain.TurnoverRow, 0, len(snapshot)),
	}
	var dead []domain.DeadStockItem

	for _, s := range snapshot {
		row := domain.TurnoverRow{
			Product:     s.Product,
			Reference:   s.Reference,
			Description: s.Description,
			Stock:       s.Stock,
			Quantities:  make([]float64, buckets),
		}
		var moved float64
		for i, label := range labels {
			q := sales[salesKey{month: label, product: s.Product, description: s.Description}]
			row.Quantities[i] = q
			moved += q
		}
		pivot.Rows = append(pivot.Rows, row)

		if moved == 0 && s.Stock > 0 {
			dead = append(dead, domain.DeadStockItem{
				Product:     s.Product,
				Reference:   s.Reference,
				Description: s.Description,
				Stock:       s.Stock,
			})
		}
	}
	return pivot, dead
}
