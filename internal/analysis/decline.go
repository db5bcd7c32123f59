package analysis

import (
	"sort"
	"time"

	"github.com/itechlabs/comercial-insights/internal/domain"
)

// Decline compares each client's historical invoiced quantity against the
// trailing window ending at the reference date (inclusive). A client
// declines when the historical total strictly exceeds the recent total;
// the magnitude is the difference. Clients with invoice history but no
// row at all inside the window are also reported as inactive, a strict
// subset of the declining list whenever their history is nonzero.
func (e *Engine) Decline(invoices []domain.TransactionRow, refDate time.Time) (inactive []string, declining []domain.ClientDecline) {
	start := e.windowStart(refDate)

	type productAgg struct {
		description string
		historical  float64
		recent      float64
	}
	type clientAgg struct {
		historical float64
		recent     float64
		recentRows int
		products   map[string]*productAgg
	}

	clients := make(map[string]*clientAgg)
	for _, r := range invoices {
		c, ok := clients[r.Client]
		if !ok {
			c = &clientAgg{products: make(map[string]*productAgg)}
			clients[r.Client] = c
		}
		p, ok := c.products[r.Product]
		if !ok {
			p = &productAgg{description: r.ProductDescription}
			c.products[r.Product] = p
		}

		c.historical += r.Quantity
		p.historical += r.Quantity

		// Rows with a nil date cannot fall inside the window.
		if r.Date != nil && !r.Date.Before(start) {
			c.recent += r.Quantity
			p.recent += r.Quantity
			c.recentRows++
		}
	}

	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := clients[name]
		if c.recentRows == 0 {
			inactive = append(inactive, name)
		}
		if c.historical <= c.recent {
			continue
		}

		decline := domain.ClientDecline{
			Client:     name,
			Historical: c.historical,
			Recent:     c.recent,
			Decline:    c.historical - c.recent,
		}

		codes := make([]string, 0, len(c.products))
		for code := range c.products {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			p := c.products[code]
			if p.historical <= p.recent {
				continue
			}
			decline.Products = append(decline.Products, domain.ProductDecline{
				Product:     code,
				Description: p.description,
				Historical:  p.historical,
				Recent:      p.recent,
			})
		}

		declining = append(declining, decline)
	}
	return inactive, declining
}
