package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechlabs/comercial-insights/internal/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fp(v float64) *float64 { return &v }

func invoice(client, rep, product, desc string, d *time.Time, qty float64, unit *float64) domain.TransactionRow {
	return domain.TransactionRow{
		Date:               d,
		Client:             client,
		Representative:     rep,
		Product:            product,
		ProductDescription: desc,
		Quantity:           qty,
		UnitValue:          unit,
		Stage:              domain.StageInvoice,
	}
}

func TestReferenceDate(t *testing.T) {
	rows := []domain.TransactionRow{
		invoice("A", "", "P1", "", date(2024, time.January, 10), 1, nil),
		invoice("B", "", "P1", "", nil, 1, nil),
		invoice("C", "", "P1", "", date(2024, time.March, 5), 1, nil),
	}
	ref, err := ReferenceDate(rows)
	require.NoError(t, err)
	assert.Equal(t, *date(2024, time.March, 5), ref)
}

func TestReferenceDateAllMissing(t *testing.T) {
	rows := []domain.TransactionRow{
		invoice("A", "", "P1", "", nil, 1, nil),
	}
	_, err := ReferenceDate(rows)
	assert.ErrorIs(t, err, ErrInvoiceDatesMissing)

	_, err = ReferenceDate(nil)
	assert.ErrorIs(t, err, ErrInvoiceDatesMissing)
}

func TestUnionStampsStages(t *testing.T) {
	quotes := []domain.TransactionRow{{Client: "A"}}
	orders := []domain.TransactionRow{{Client: "B"}, {Client: "C"}}
	invoices := []domain.TransactionRow{{Client: "D"}}

	all := Union(quotes, orders, invoices)
	require.Len(t, all, 4)
	assert.Equal(t, domain.StageQuote, all[0].Stage)
	assert.Equal(t, domain.StageOrder, all[1].Stage)
	assert.Equal(t, domain.StageOrder, all[2].Stage)
	assert.Equal(t, domain.StageInvoice, all[3].Stage)
}

func TestConversionRates(t *testing.T) {
	rates := ConversionRates(10, 4, 2)
	require.Len(t, rates, 2)
	assert.Equal(t, StepQuoteToOrder, rates[0].Step)
	assert.InDelta(t, 0.4, rates[0].Rate, 1e-9)
	assert.Equal(t, StepOrderToInvoice, rates[1].Step)
	assert.InDelta(t, 0.5, rates[1].Rate, 1e-9)
}

func TestConversionRatesEmptyUpstream(t *testing.T) {
	rates := ConversionRates(0, 0, 5)
	assert.Equal(t, 0.0, rates[0].Rate)
	assert.Equal(t, 0.0, rates[1].Rate)
}

func TestRepresentativeRanking(t *testing.T) {
	all := []domain.TransactionRow{
		invoice("A", "Alice", "P1", "", date(2024, time.January, 1), 2, fp(10)), // 20
		invoice("B", "Bob", "P1", "", date(2024, time.January, 1), 5, fp(10)),   // 50
		invoice("C", "Alice", "P1", "", date(2024, time.February, 1), 4, fp(10)), // 40
		invoice("D", "", "P1", "", date(2024, time.January, 1), 9, fp(10)),      // no rep, skipped
		invoice("E", "Carol", "P1", "", date(2024, time.January, 1), 3, nil),    // missing value, skipped
	}

	ranking := RepresentativeRanking(all)
	require.Len(t, ranking, 2, "rows without value contribute nothing, not zero")
	assert.Equal(t, "Alice", ranking[0].Representative)
	assert.Equal(t, 60.0, ranking[0].TotalValue)
	assert.Equal(t, "Bob", ranking[1].Representative)
	assert.Equal(t, 50.0, ranking[1].TotalValue)
}

func TestRevenueByRepresentativeMonth(t *testing.T) {
	all := []domain.TransactionRow{
		invoice("A", "Alice", "P1", "", date(2024, time.January, 5), 1, fp(10)),
		invoice("B", "Alice", "P1", "", date(2024, time.January, 20), 2, fp(10)),
		invoice("C", "Alice", "P1", "", date(2024, time.February, 1), 1, fp(10)),
		invoice("D", "Alice", "P1", "", nil, 100, fp(10)), // nil date has no bucket
	}

	out := RevenueByRepresentativeMonth(all)
	require.Len(t, out, 2)
	assert.Equal(t, "2024-01", out[0].Month)
	assert.Equal(t, 30.0, out[0].TotalValue)
	assert.Equal(t, "2024-02", out[1].Month)
	assert.Equal(t, 10.0, out[1].TotalValue)
}

func TestRevenueByClientMonth(t *testing.T) {
	all := []domain.TransactionRow{
		invoice("ACME", "Alice", "P1", "", date(2024, time.January, 5), 1, fp(10)),
		invoice("ACME", "Alice", "P2", "", date(2024, time.January, 9), 2, fp(5)),
		invoice("BETA", "Alice", "P1", "", date(2024, time.January, 5), 1, fp(7)),
	}

	out := RevenueByClientMonth(all)
	require.Len(t, out, 2)
	assert.Equal(t, "ACME", out[0].Client)
	assert.Equal(t, 20.0, out[0].TotalValue)
	assert.Equal(t, "BETA", out[1].Client)
	assert.Equal(t, 7.0, out[1].TotalValue)
}

func TestMonthlyTrend(t *testing.T) {
	invoices := []domain.TransactionRow{
		invoice("A", "", "P1", "", date(2024, time.January, 5), 3, fp(10)),
		invoice("B", "", "P1", "", date(2024, time.February, 5), 2, nil),
	}
	quotes := []domain.TransactionRow{
		{Date: date(2024, time.March, 1), Client: "C", Quantity: 5, UnitValue: fp(4), Stage: domain.StageQuote},
	}
	all := Union(quotes, nil, invoices)

	trend := MonthlyTrend(all, invoices)
	require.Len(t, trend, 3)

	assert.Equal(t, "2024-01", trend[0].Month)
	assert.Equal(t, 3.0, trend[0].Quantity)
	assert.Equal(t, 30.0, trend[0].TotalValue)

	// February has invoiced quantity but no computable value.
	assert.Equal(t, "2024-02", trend[1].Month)
	assert.Equal(t, 2.0, trend[1].Quantity)
	assert.Equal(t, 0.0, trend[1].TotalValue)

	// March has quote value but no invoiced quantity.
	assert.Equal(t, "2024-03", trend[2].Month)
	assert.Equal(t, 0.0, trend[2].Quantity)
	assert.Equal(t, 20.0, trend[2].TotalValue)
}

func TestDecline(t *testing.T) {
	e := NewEngine(49, 6)
	refDate := *date(2024, time.June, 30)

	invoices := []domain.TransactionRow{
		// Steady: inside the window, history equals recent.
		invoice("STEADY", "", "P1", "Widget", date(2024, time.May, 1), 10, nil),
		// Declining: bought 100 long ago, nothing recently.
		invoice("GONE", "", "P2", "Gadget", date(2023, time.January, 15), 100, nil),
		// Declining but still active: 80 historical outside, 20 inside.
		invoice("SLIPPING", "", "P3", "Bolt", date(2023, time.March, 1), 80, nil),
		invoice("SLIPPING", "", "P3", "Bolt", date(2024, time.June, 1), 20, nil),
	}

	inactive, declining := e.Decline(invoices, refDate)

	assert.Equal(t, []string{"GONE"}, inactive)

	require.Len(t, declining, 2)
	assert.Equal(t, "GONE", declining[0].Client)
	assert.Equal(t, 100.0, declining[0].Historical)
	assert.Equal(t, 0.0, declining[0].Recent)
	assert.Equal(t, 100.0, declining[0].Decline)
	require.Len(t, declining[0].Products, 1)
	assert.Equal(t, "P2", declining[0].Products[0].Product)

	assert.Equal(t, "SLIPPING", declining[1].Client)
	assert.Equal(t, 100.0, declining[1].Historical)
	assert.Equal(t, 20.0, declining[1].Recent)
	assert.Equal(t, 80.0, declining[1].Decline)
}

func TestWindowStartClampsToMonthEnd(t *testing.T) {
	e := NewEngine(49, 6)

	// Aug 31 minus 6 months has no Feb 31; the window starts at Feb 29.
	assert.Equal(t, *date(2024, time.February, 29), e.windowStart(*date(2024, time.August, 31)))
	assert.Equal(t, *date(2023, time.February, 28), e.windowStart(*date(2023, time.August, 31)))
	// Days that exist in the target month are untouched.
	assert.Equal(t, *date(2023, time.December, 15), e.windowStart(*date(2024, time.June, 15)))
}

func TestDeclineMonthEndReferenceDate(t *testing.T) {
	e := NewEngine(49, 6)
	refDate := *date(2024, time.August, 31)

	invoices := []domain.TransactionRow{
		// Early March sits inside the clamped window, not before it.
		invoice("EARLY", "", "P1", "Widget", date(2024, time.March, 1), 10, nil),
		// The clamped boundary day itself is inclusive.
		invoice("EDGE", "", "P2", "Gadget", date(2024, time.February, 29), 5, nil),
		// The day before the boundary stays historical.
		invoice("OLD", "", "P3", "Bolt", date(2024, time.February, 28), 7, nil),
	}

	inactive, declining := e.Decline(invoices, refDate)

	assert.Equal(t, []string{"OLD"}, inactive)
	require.Len(t, declining, 1)
	assert.Equal(t, "OLD", declining[0].Client)
}

func TestDeclineNilDateOutsideWindow(t *testing.T) {
	e := NewEngine(49, 6)
	refDate := *date(2024, time.June, 30)

	invoices := []domain.TransactionRow{
		invoice("NODATE", "", "P1", "", nil, 50, nil),
	}
	inactive, declining := e.Decline(invoices, refDate)

	assert.Equal(t, []string{"NODATE"}, inactive)
	require.Len(t, declining, 1)
	assert.Equal(t, 50.0, declining[0].Decline)
}

func TestSnapshotLatestMonthAndLocationClasses(t *testing.T) {
	e := NewEngine(49, 6)
	inventory := []domain.InventoryRow{
		{MonthYear: date(2024, time.February, 1), Location: 49, Product: "P1", Reference: "R1", Description: "Widget", PhysicalQuantity: 99},
		{MonthYear: date(2024, time.March, 1), Location: 49, Product: "P1", Reference: "R1", Description: "Widget", PhysicalQuantity: 5},
		{MonthYear: date(2024, time.March, 1), Location: 7, Product: "P1", Reference: "R1", Description: "Widget", PhysicalQuantity: 3},
		{MonthYear: date(2024, time.March, 1), Location: 7, Product: "P2", Reference: "R2", Description: "Gadget", PhysicalQuantity: 2},
		{MonthYear: nil, Location: 49, Product: "P9", Reference: "R9", Description: "Ghost", PhysicalQuantity: 1000},
	}

	all, label := e.Snapshot(inventory, domain.LocationAll)
	assert.Equal(t, "2024-03", label)
	require.Len(t, all, 2)
	assert.Equal(t, "P1", all[0].Product)
	assert.Equal(t, 8.0, all[0].Stock, "latest month only, both locations summed")
	assert.Equal(t, 2.0, all[1].Stock)

	ref, _ := e.Snapshot(inventory, domain.LocationReference)
	require.Len(t, ref, 1)
	assert.Equal(t, 5.0, ref[0].Stock)

	field, _ := e.Snapshot(inventory, domain.LocationField)
	require.Len(t, field, 2)
	assert.Equal(t, 3.0, field[0].Stock)
}

func TestSnapshotZeroReferenceLocation(t *testing.T) {
	e := NewEngine(0, 6)
	inventory := []domain.InventoryRow{
		{MonthYear: date(2024, time.March, 1), Location: 0, Product: "P1", Reference: "R1", Description: "Widget", PhysicalQuantity: 4},
		{MonthYear: date(2024, time.March, 1), Location: 7, Product: "P2", Reference: "R2", Description: "Gadget", PhysicalQuantity: 9},
	}

	ref, _ := e.Snapshot(inventory, domain.LocationReference)
	require.Len(t, ref, 1)
	assert.Equal(t, "P1", ref[0].Product)

	field, _ := e.Snapshot(inventory, domain.LocationField)
	require.Len(t, field, 1)
	assert.Equal(t, "P2", field[0].Product)
}

func TestSnapshotNoParseableMonths(t *testing.T) {
	e := NewEngine(49, 6)
	summary, label := e.Snapshot([]domain.InventoryRow{
		{MonthYear: nil, Product: "P1", PhysicalQuantity: 10},
	}, domain.LocationAll)

	assert.Empty(t, summary)
	assert.Equal(t, "", label)
}

func TestConsumptionClassification(t *testing.T) {
	invoices := []domain.TransactionRow{
		// HEALTHY client: mean 3 over two active months, stock 5.
		invoice("HEALTHY", "", "P1", "Widget", date(2024, time.January, 5), 2, nil),
		invoice("HEALTHY", "", "P1", "Widget", date(2024, time.February, 5), 4, nil),
		// BORDER client: mean 3 equals stock 3.
		invoice("BORDER", "", "P2", "Gadget", date(2024, time.January, 5), 3, nil),
		// CRIT client: mean 3 above stock 2.
		invoice("CRIT", "", "P3", "Bolt", date(2024, time.January, 5), 3, nil),
		// LOST client: product absent from the snapshot.
		invoice("LOST", "", "P4", "Nut", date(2024, time.January, 5), 3, nil),
	}
	snapshot := []domain.StockSummary{
		{Product: "P1", Reference: "R1", Description: "Widget", Stock: 5},
		{Product: "P2", Reference: "R2", Description: "Gadget", Stock: 3},
		{Product: "P3", Reference: "R3", Description: "Bolt", Stock: 2},
	}

	out := Consumption(invoices, snapshot)
	require.Len(t, out, 5)

	byClient := make(map[string]domain.ConsumptionRow)
	for _, row := range out {
		byClient[row.Client] = row
	}

	assert.Equal(t, 3.0, byClient["HEALTHY"].MonthlyConsumption, "mean over active months only")
	assert.Equal(t, domain.ConditionHealthy, byClient["HEALTHY"].Condition)
	assert.Equal(t, domain.ConditionBorderline, byClient["BORDER"].Condition)
	assert.Equal(t, domain.ConditionCritical, byClient["CRIT"].Condition)

	lost := byClient["LOST"]
	assert.Equal(t, domain.ConditionUnknown, lost.Condition)
	assert.Nil(t, lost.Stock)
}

func TestConsumptionRepeatsRowPerReference(t *testing.T) {
	invoices := []domain.TransactionRow{
		invoice("ACME", "", "P1", "Widget", date(2024, time.January, 5), 4, nil),
	}
	snapshot := []domain.StockSummary{
		{Product: "P1", Reference: "R1", Description: "Widget", Stock: 10},
		{Product: "P1", Reference: "R2", Description: "Widget", Stock: 1},
	}

	out := Consumption(invoices, snapshot)
	require.Len(t, out, 2)
	assert.Equal(t, "R1", out[0].Reference)
	assert.Equal(t, domain.ConditionHealthy, out[0].Condition)
	assert.Equal(t, "R2", out[1].Reference)
	assert.Equal(t, domain.ConditionCritical, out[1].Condition)
}

func TestConsumptionRounding(t *testing.T) {
	invoices := []domain.TransactionRow{
		invoice("ACME", "", "P1", "Widget", date(2024, time.January, 5), 1, nil),
		invoice("ACME", "", "P1", "Widget", date(2024, time.February, 5), 1, nil),
		invoice("ACME", "", "P1", "Widget", date(2024, time.March, 5), 0, nil),
	}
	out := Consumption(invoices, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 0.67, out[0].MonthlyConsumption)
}

func TestTurnoverPivot(t *testing.T) {
	e := NewEngine(49, 6)
	refDate := *date(2024, time.June, 15)

	snapshot := []domain.StockSummary{
		{Product: "P1", Reference: "R1", Description: "Widget", Stock: 8},
		{Product: "P2", Reference: "R2", Description: "Gadget", Stock: 5},
		{Product: "P3", Reference: "R3", Description: "Bolt", Stock: 0},
	}
	invoices := []domain.TransactionRow{
		invoice("A", "", "P1", "Widget", date(2024, time.June, 2), 3, nil),
		invoice("B", "", "P1", "Widget", date(2024, time.January, 20), 2, nil),
		invoice("C", "", "P1", "Widget", date(2023, time.November, 1), 99, nil), // before the window
	}

	pivot, dead := e.Turnover(invoices, snapshot, refDate)

	require.Len(t, pivot.Months, 7)
	assert.Equal(t, "2023-12", pivot.Months[0])
	assert.Equal(t, "2024-06", pivot.Months[6])

	require.Len(t, pivot.Rows, 3)
	p1 := pivot.Rows[0]
	assert.Equal(t, "P1", p1.Product)
	assert.Equal(t, []float64{0, 2, 0, 0, 0, 0, 3}, p1.Quantities)
	assert.Equal(t, 8.0, p1.Stock)

	p2 := pivot.Rows[1]
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0}, p2.Quantities, "unsold product zero-filled")

	// P2 never moved and holds stock; P3 never moved but holds none.
	require.Len(t, dead, 1)
	assert.Equal(t, "P2", dead[0].Product)
	assert.Equal(t, 5.0, dead[0].Stock)
}

func TestRunFullPipeline(t *testing.T) {
	e := NewEngine(49, 6)

	input := domain.AnalysisInput{
		Quotes: []domain.TransactionRow{
			{Client: "ACME", Product: "P1", Quantity: 5, UnitValue: fp(10), Date: date(2024, time.May, 1)},
			{Client: "BETA", Product: "P1", Quantity: 1, UnitValue: fp(10), Date: date(2024, time.May, 2)},
		},
		Orders: []domain.TransactionRow{
			{Client: "ACME", Product: "P1", Quantity: 5, UnitValue: fp(10), Date: date(2024, time.May, 3)},
		},
		Invoices: []domain.TransactionRow{
			invoice("ACME", "Alice", "P1", "Widget", date(2024, time.June, 10), 5, fp(10)),
		},
		Inventory: []domain.InventoryRow{
			{MonthYear: date(2024, time.June, 1), Location: 49, Product: "P1", Reference: "R1", Description: "Widget", PhysicalQuantity: 12},
		},
	}

	report, err := e.Run(input, domain.AnalysisOptions{LocationClass: domain.LocationAll})
	require.NoError(t, err)

	assert.Equal(t, *date(2024, time.June, 10), report.ReferenceDate)
	assert.Equal(t, "2024-06", report.LatestStockMonth)

	require.Len(t, report.RepresentativeRanking, 1)
	assert.Equal(t, "Alice", report.RepresentativeRanking[0].Representative)
	assert.Equal(t, 50.0, report.RepresentativeRanking[0].TotalValue)

	require.Len(t, report.ConversionRates, 2)
	assert.InDelta(t, 0.5, report.ConversionRates[0].Rate, 1e-9)
	assert.InDelta(t, 1.0, report.ConversionRates[1].Rate, 1e-9)

	require.Len(t, report.StockSummary, 1)
	assert.Equal(t, 12.0, report.StockSummary[0].Stock)

	require.Len(t, report.Turnover.Months, 7)
	assert.Empty(t, report.DeadStock, "the only product moved inside the window")
	assert.Empty(t, report.InactiveClients)
}

func TestRunFailsWithoutInvoiceDates(t *testing.T) {
	e := NewEngine(0, 0)
	input := domain.AnalysisInput{
		Quotes:    []domain.TransactionRow{},
		Orders:    []domain.TransactionRow{},
		Invoices:  []domain.TransactionRow{{Client: "A", Product: "P1"}},
		Inventory: []domain.InventoryRow{},
	}
	_, err := e.Run(input, domain.AnalysisOptions{})
	assert.ErrorIs(t, err, ErrInvoiceDatesMissing)
}
