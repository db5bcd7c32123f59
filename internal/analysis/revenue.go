package analysis

import (
	"sort"

	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/normalize"
)

// RepresentativeRanking sums total value per representative across all
// stages, highest first. Rows without a representative (quotes and orders
// usually lack one) and rows with a missing unit value are skipped; a
// missing value must not count as zero revenue.
func RepresentativeRanking(all []domain.TransactionRow) []domain.RepresentativeRevenue {
	totals := make(map[string]float64)
	for _, r := range all {
		if r.Representative == "" {
			continue
		}
		if v := r.TotalValue(); v != nil {
			totals[r.Representative] += *v
		}
	}

	ranking := make([]domain.RepresentativeRevenue, 0, len(totals))
	for rep, total := range totals {
		ranking = append(ranking, domain.RepresentativeRevenue{Representative: rep, TotalValue: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalValue != ranking[j].TotalValue {
			return ranking[i].TotalValue > ranking[j].TotalValue
		}
		return ranking[i].Representative < ranking[j].Representative
	})
	return ranking
}

// RevenueByRepresentativeMonth buckets revenue per representative per
// calendar month. Rows with a nil date have no month bucket and are
// excluded here, as are rows without representative or unit value.
func RevenueByRepresentativeMonth(all []domain.TransactionRow) []domain.RepresentativeMonthRevenue {
	type key struct{ rep, month string }
	totals := make(map[key]float64)
	for _, r := range all {
		if r.Representative == "" || r.Date == nil {
			continue
		}
		if v := r.TotalValue(); v != nil {
			totals[key{r.Representative, normalize.MonthKey(*r.Date)}] += *v
		}
	}

	out := make([]domain.RepresentativeMonthRevenue, 0, len(totals))
	for k, total := range totals {
		out = append(out, domain.RepresentativeMonthRevenue{
			Representative: k.rep,
			Month:          k.month,
			TotalValue:     total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Representative != out[j].Representative {
			return out[i].Representative < out[j].Representative
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// RevenueByClientMonth adds the client dimension to the monthly breakdown.
func RevenueByClientMonth(all []domain.TransactionRow) []domain.ClientMonthRevenue {
	type key struct{ rep, client, month string }
	totals := make(map[key]float64)
	for _, r := range all {
		if r.Representative == "" || r.Date == nil {
			continue
		}
		if v := r.TotalValue(); v != nil {
			totals[key{r.Representative, r.Client, normalize.MonthKey(*r.Date)}] += *v
		}
	}

	out := make([]domain.ClientMonthRevenue, 0, len(totals))
	for k, total := range totals {
		out = append(out, domain.ClientMonthRevenue{
			Representative: k.rep,
			Client:         k.client,
			Month:          k.month,
			TotalValue:     total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Representative != out[j].Representative {
			return out[i].Representative < out[j].Representative
		}
		if out[i].Client != out[j].Client {
			return out[i].Client < out[j].Client
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// MonthlyTrend merges two monthly series: invoiced quantity and total
// value across all stages. Months appearing in either series are listed.
func MonthlyTrend(all, invoices []domain.TransactionRow) []domain.MonthlyTrendPoint {
	qty := make(map[string]float64)
	for _, r := range invoices {
		if r.Date == nil {
			continue
		}
		qty[normalize.MonthKey(*r.Date)] += r.Quantity
	}

	value := make(map[string]float64)
	for _, r := range all {
		if r.Date == nil {
			continue
		}
		if v := r.TotalValue(); v != nil {
			value[normalize.MonthKey(*r.Date)] += *v
		}
	}

	months := make(map[string]struct{}, len(qty)+len(value))
	for m := range qty {
		months[m] = struct{}{}
	}
	for m := range value {
		months[m] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Strings(keys)

	trend := make([]domain.MonthlyTrendPoint, 0, len(keys))
	for _, m := range keys {
		trend = append(trend, domain.MonthlyTrendPoint{
			Month:      m,
			Quantity:   qty[m],
			TotalValue: value[m],
		})
	}
	return trend
}
