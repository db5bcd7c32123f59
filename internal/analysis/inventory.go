package analysis

import (
	"sort"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/normalize"
)

// Snapshot filters the inventory to the single latest parsed month across
// all rows, applies the location-class filter and sums physical quantity
// per product triple. Rows with an unparseable month never participate in
// the latest-month computation. The returned month label is empty when no
// row had a parseable month; the summary is empty in that case too.
func (e *Engine) Snapshot(inventory []domain.InventoryRow, class domain.LocationClass) ([]domain.StockSummary, string) {
	var latest *int64
	for _, r := range inventory {
		if r.MonthYear == nil {
			continue
		}
		ts := r.MonthYear.Unix()
		if latest == nil || ts > *latest {
			latest = &ts
		}
	}
	if latest == nil {
		return []domain.StockSummary{}, ""
	}

	totals := make(map[domain.ProductKey]float64)
	var label string
	for _, r := range inventory {
		if r.MonthYear == nil || r.MonthYear.Unix() != *latest {
			continue
		}
		label = normalize.MonthKey(*r.MonthYear)

		switch class {
		case domain.LocationReference:
			if r.Location != e.referenceLocation {
				continue
			}
		case domain.LocationField:
			if r.Location == e.referenceLocation {
				continue
			}
		}

		key := domain.ProductKey{Product: r.Product, Reference: r.Reference, Description: r.Description}
		totals[key] += r.PhysicalQuantity
	}

	summary := make([]domain.StockSummary, 0, len(totals))
	for key, stock := range totals {
		summary = append(summary, domain.StockSummary{
			Product:     key.Product,
			Reference:   key.Reference,
			Description: key.Description,
			Stock:       stock,
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Product != summary[j].Product {
			return summary[i].Product < summary[j].Product
		}
		if summary[i].Reference != summary[j].Reference {
			return summary[i].Reference < summary[j].Reference
		}
		return summary[i].Description < summary[j].Description
	})
	return summary, label
}
