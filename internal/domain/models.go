package domain

import "time"

// Stage identifies which step of the sales funnel a transaction row
// came from. It is assigned when the three source tables are unioned;
// the raw spreadsheets carry no such column.
type Stage string

const (
	StageQuote   Stage = "quote"
	StageOrder   Stage = "order"
	StageInvoice Stage = "invoice"
)

// TransactionRow is one canonical sales line after normalization.
// The same shape is used for quote, order and invoice tables.
type TransactionRow struct {
	Date               *time.Time // nil when the raw value failed day-first parsing
	Client             string
	Representative     string // present on invoices, usually empty on quotes/orders
	Product            string
	ProductDescription string
	Quantity           float64
	UnitValue          *float64 // nil means missing, never zero
	Stage              Stage
}

// TotalValue returns Quantity x UnitValue, or nil when the unit value
// is missing. A missing unit value must propagate as null, not zero.
func (r TransactionRow) TotalValue() *float64 {
	if r.UnitValue == nil {
		return nil
	}
	v := r.Quantity * *r.UnitValue
	return &v
}

// InventoryRow is one canonical on-hand stock line.
type InventoryRow struct {
	MonthYear        *time.Time // month granularity, nil when MM/YYYY parsing failed
	Location         int
	Product          string
	Reference        string
	Description      string
	PhysicalQuantity float64
}

// ProductKey is the stable identity for inventory and turnover joins.
// A product code reused with a different description is a distinct entity.
type ProductKey struct {
	Product     string
	Reference   string
	Description string
}

// LocationClass selects which inventory locations enter the snapshot.
type LocationClass string

const (
	LocationAll       LocationClass = "all"       // head office and field locations
	LocationReference LocationClass = "reference" // head-office location only
	LocationField     LocationClass = "field"     // everything but the head office
)

// ParseLocationClass maps a user-supplied string onto a LocationClass,
// defaulting to LocationAll for empty or unknown values.
func ParseLocationClass(s string) LocationClass {
	switch LocationClass(s) {
	case LocationReference:
		return LocationReference
	case LocationField:
		return LocationField
	default:
		return LocationAll
	}
}

// AnalysisInput bundles the four decoded tables for one analysis run.
type AnalysisInput struct {
	Quotes    []TransactionRow
	Orders    []TransactionRow
	Invoices  []TransactionRow
	Inventory []InventoryRow
}

// AnalysisOptions are the per-run knobs exposed to callers.
type AnalysisOptions struct {
	LocationClass LocationClass `json:"location_class"`
}
