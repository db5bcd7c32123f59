package domain

import "time"

// Condition classifies current stock against mean monthly consumption.
type Condition string

const (
	ConditionHealthy    Condition = "healthy"    // stock above consumption
	ConditionBorderline Condition = "borderline" // stock exactly equals consumption
	ConditionCritical   Condition = "critical"   // stock below consumption
	ConditionUnknown    Condition = "unknown"    // no matching inventory row
)

// RepresentativeRevenue is one row of the sales-rep ranking.
type RepresentativeRevenue struct {
	Representative string  `json:"representative"`
	TotalValue     float64 `json:"total_value"`
}

// RepresentativeMonthRevenue is revenue per representative per month bucket.
type RepresentativeMonthRevenue struct {
	Representative string  `json:"representative"`
	Month          string  `json:"month"` // YYYY-MM
	TotalValue     float64 `json:"total_value"`
}

// ClientMonthRevenue is revenue per representative, client and month bucket.
type ClientMonthRevenue struct {
	Representative string  `json:"representative"`
	Client         string  `json:"client"`
	Month          string  `json:"month"`
	TotalValue     float64 `json:"total_value"`
}

// ConversionRate is one funnel step. Rates are row-count ratios.
type ConversionRate struct {
	Step string  `json:"step"`
	Rate float64 `json:"rate"`
}

// MonthlyTrendPoint carries invoiced quantity and all-stage value per month.
type MonthlyTrendPoint struct {
	Month      string  `json:"month"`
	Quantity   float64 `json:"quantity"`
	TotalValue float64 `json:"total_value"`
}

// StockSummary is current stock per product triple after the snapshot filter.
type StockSummary struct {
	Product     string  `json:"product"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Stock       float64 `json:"stock"`
}

// ConsumptionRow compares a client's mean monthly consumption of a product
// against current stock. Stock is nil when no inventory row matched.
type ConsumptionRow struct {
	Client             string    `json:"client"`
	Product            string    `json:"product"`
	Reference          string    `json:"reference"`
	Description        string    `json:"description"`
	MonthlyConsumption float64   `json:"monthly_consumption"`
	Stock              *float64  `json:"stock"`
	Condition          Condition `json:"condition"`
}

// TurnoverRow is one product triple of the turnover pivot. Quantities is
// aligned with TurnoverPivot.Months; a month with no sales holds 0.
type TurnoverRow struct {
	Product     string    `json:"product"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Stock       float64   `json:"stock"`
	Quantities  []float64 `json:"quantities"`
}

// TurnoverPivot is the 7-bucket per-product monthly sold quantity table.
type TurnoverPivot struct {
	Months []string      `json:"months"` // YYYY-MM, ascending
	Rows   []TurnoverRow `json:"rows"`
}

// DeadStockItem is a product with zero movement across the pivot window
// while holding positive stock.
type DeadStockItem struct {
	Product     string  `json:"product"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Stock       float64 `json:"stock"`
}

// ProductDecline is the per-product drill-down of a declining client.
type ProductDecline struct {
	Product     string  `json:"product"`
	Description string  `json:"description"`
	Historical  float64 `json:"historical_quantity"`
	Recent      float64 `json:"recent_quantity"`
}

// ClientDecline reports a client whose trailing-window quantity fell below
// the historical total. Decline is historical minus recent.
type ClientDecline struct {
	Client     string           `json:"client"`
	Historical float64          `json:"historical_quantity"`
	Recent     float64          `json:"recent_quantity"`
	Decline    float64          `json:"decline"`
	Products   []ProductDecline `json:"products,omitempty"`
}

// Report is the full output of one analysis run. It lives only until the
// next run overwrites it; nothing is persisted.
type Report struct {
	GeneratedAt      time.Time `json:"generated_at"`
	ReferenceDate    time.Time `json:"reference_date"`     // max invoice date, anchors all windows
	LatestStockMonth string    `json:"latest_stock_month"` // YYYY-MM, empty when inventory had no parseable months

	RepresentativeRanking []RepresentativeRevenue      `json:"representative_ranking"`
	RevenueByRepMonth     []RepresentativeMonthRevenue `json:"revenue_by_representative_month"`
	RevenueByClientMonth  []ClientMonthRevenue         `json:"revenue_by_client_month"`
	ConversionRates       []ConversionRate             `json:"conversion_rates"`
	MonthlyTrend          []MonthlyTrendPoint          `json:"monthly_trend"`
	StockSummary          []StockSummary               `json:"stock_summary"`
	Consumption           []ConsumptionRow             `json:"consumption"`
	Turnover              TurnoverPivot                `json:"turnover"`
	DeadStock             []DeadStockItem              `json:"dead_stock"`
	InactiveClients       []string                     `json:"inactive_clients"`
	DecliningClients      []ClientDecline              `json:"declining_clients"`

	Options AnalysisOptions `json:"options"`
}
