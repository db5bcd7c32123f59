// Package analysis is the reconciliation and aggregation engine: it joins
// the three sales-stage tables and the inventory table on the canonical
// vocabulary and computes every report table of one analysis run.
package analysis

import (
	"errors"
	"time"

	"github.com/itechlabs/comercial-insights/internal/domain"
)

// ErrInvoiceDatesMissing is the one hard failure of the engine: without a
// single parseable invoice date there is no reference date to anchor the
// trailing windows, so the whole run aborts before any report is built.
var ErrInvoiceDatesMissing = errors.New("invoice table has no usable date column: check that the invoiced export carries DT.FATURAM values")

// Engine computes all report tables for one request. It is stateless;
// every run works on its own copies of the four tables.
type Engine struct {
	referenceLocation int
	windowMonths      int
}

// NewEngine builds an engine. A negative reference location and a
// non-positive window fall back to the production defaults: location 49 is
// the head office, windows trail 6 months. Location 0 is a valid site code.
func NewEngine(referenceLocation, windowMonths int) *Engine {
	if referenceLocation < 0 {
		referenceLocation = 49
	}
	if windowMonths <= 0 {
		windowMonths = 6
	}
	return &Engine{referenceLocation: referenceLocation, windowMonths: windowMonths}
}

// Run executes the full pipeline over already-normalized input and returns
// the report bundle. The reference date is computed once here and passed
// explicitly into every windowed computation.
func (e *Engine) Run(input domain.AnalysisInput, opts domain.AnalysisOptions) (*domain.Report, error) {
	refDate, err := ReferenceDate(input.Invoices)
	if err != nil {
		return nil, err
	}

	all := Union(input.Quotes, input.Orders, input.Invoices)
	snapshot, latestMonth := e.Snapshot(input.Inventory, opts.LocationClass)

	inactive, declining := e.Decline(input.Invoices, refDate)
	turnover, deadStock := e.Turnover(input.Invoices, snapshot, refDate)

	report := &domain.Report{
		GeneratedAt:      time.Now(),
		ReferenceDate:    refDate,
		LatestStockMonth: latestMonth,

		RepresentativeRanking: RepresentativeRanking(all),
		RevenueByRepMonth:     RevenueByRepresentativeMonth(all),
		RevenueByClientMonth:  RevenueByClientMonth(all),
		ConversionRates:       ConversionRates(len(input.Quotes), len(input.Orders), len(input.Invoices)),
		MonthlyTrend:          MonthlyTrend(all, input.Invoices),
		StockSummary:          snapshot,
		Consumption:           Consumption(input.Invoices, snapshot),
		Turnover:              turnover,
		DeadStock:             deadStock,
		InactiveClients:       inactive,
		DecliningClients:      declining,

		Options: opts,
	}
	return report, nil
}

// ReferenceDate returns the max parseable invoice date. Rows with nil
// dates are skipped; when none remain the run cannot proceed.
func ReferenceDate(invoices []domain.TransactionRow) (time.Time, error) {
	var max time.Time
	found := false
	for _, r := range invoices {
		if r.Date == nil {
			continue
		}
		if !found || r.Date.After(max) {
			max = *r.Date
			found = true
		}
	}
	if !found {
		return time.Time{}, ErrInvoiceDatesMissing
	}
	return max, nil
}

// Union concatenates the three stage tables into one long table, stamping
// each row with its stage. The tables must already share the canonical
// vocabulary; that is the entire reason normalization exists.
func Union(quotes, orders, invoices []domain.TransactionRow) []domain.TransactionRow {
	all := make([]domain.TransactionRow, 0, len(quotes)+len(orders)+len(invoices))
	for _, r := range quotes {
		r.Stage = domain.StageQuote
		all = append(all, r)
	}
	for _, r := range orders {
		r.Stage = domain.StageOrder
		all = append(all, r)
	}
	for _, r := range invoices {
		r.Stage = domain.StageInvoice
		all = append(all, r)
	}
	return all
}

// windowStart returns the inclusive start of the trailing window ending at
// the reference date. When the reference day does not exist in the target
// month (e.g. Aug 31 minus 6 months), AddDate rolls forward into the next
// month; clamp back to the last day of the target month instead.
func (e *Engine) windowStart(refDate time.Time) time.Time {
	start := refDate.AddDate(0, -e.windowMonths, 0)
	if start.Day() != refDate.Day() {
		start = start.AddDate(0, 0, -start.Day())
	}
	return start
}
