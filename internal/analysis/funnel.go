package analysis

import "github.com/itechlabs/comercial-insights/internal/domain"

// Funnel step labels, in order.
const (
	StepQuoteToOrder   = "quote->order"
	StepOrderToInvoice = "order->invoice"
)

// ConversionRates computes the two funnel ratios from row counts. They are
// count ratios, not value-weighted. An empty upstream stage yields rate 0,
// never an error or a NaN.
func ConversionRates(quotes, orders, invoices int) []domain.ConversionRate {
	var quoteToOrder, orderToInvoice float64
	if quotes > 0 {
		quoteToOrder = float64(orders) / float64(quotes)
	}
	if orders > 0 {
		orderToInvoice = float64(invoices) / float64(orders)
	}
	return []domain.ConversionRate{
		{Step: StepQuoteToOrder, Rate: quoteToOrder},
		{Step: StepOrderToInvoice, Rate: orderToInvoice},
	}
}
