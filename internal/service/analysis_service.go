package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/itechlabs/comercial-insights/internal/analysis"
	"github.com/itechlabs/comercial-insights/internal/cache"
	"github.com/itechlabs/comercial-insights/internal/domain"
)

// ErrMissingInput blocks computation until all four tables are supplied.
var ErrMissingInput = errors.New("all four tables are required: invoiced, quotes, orders and inventory")

// ErrNoReport is returned by LastReport before the first successful run.
var ErrNoReport = errors.New("no analysis has completed yet")

// AnalysisService runs the engine over one upload batch at a time. The
// last report is kept in memory and simply overwritten by the next run;
// identical concurrent requests are collapsed onto one computation.
type AnalysisService struct {
	engine *analysis.Engine
	cache  cache.ReportCache
	group  singleflight.Group

	mu   sync.RWMutex
	last *domain.Report
}

func NewAnalysisService(engine *analysis.Engine, cacheImpl cache.ReportCache) *AnalysisService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &AnalysisService{engine: engine, cache: cacheImpl}
}

// Analyze validates the input, consults the report cache and runs the
// engine. hash identifies the upload batch contents plus options; callers
// that cannot hash their input may pass "" to bypass the cache.
func (s *AnalysisService) Analyze(ctx context.Context, input domain.AnalysisInput, opts domain.AnalysisOptions) (*domain.Report, error) {
	if input.Quotes == nil || input.Orders == nil || input.Invoices == nil || input.Inventory == nil {
		return nil, ErrMissingInput
	}

	hash := InputHash(input, opts)
	if report, ok, err := s.cache.Get(ctx, hash); err == nil && ok {
		s.setLast(report)
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analysis: cache get failed")
	}

	v, err, _ := s.group.Do(hash, func() (interface{}, error) {
		report, err := s.engine.Run(input, opts)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, hash, report); err != nil {
			log.Warn().Err(err).Msg("analysis: cache set failed")
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}

	report := v.(*domain.Report)
	s.setLast(report)

	log.Info().
		Str("reference_date", report.ReferenceDate.Format("2006-01-02")).
		Int("invoice_rows", len(input.Invoices)).
		Int("quote_rows", len(input.Quotes)).
		Int("order_rows", len(input.Orders)).
		Int("inventory_rows", len(input.Inventory)).
		Msg("analysis completed")
	return report, nil
}

// LastReport returns the most recently computed report.
func (s *AnalysisService) LastReport() (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, ErrNoReport
	}
	return s.last, nil
}

func (s *AnalysisService) setLast(report *domain.Report) {
	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
}

// InputHash fingerprints an analysis request for cache keying and request
// collapsing. Row order matters; two uploads of the same file hash alike.
func InputHash(input domain.AnalysisInput, opts domain.AnalysisOptions) string {
	h := sha1.New()
	fmt.Fprintf(h, "class=%s|", opts.LocationClass)
	for _, r := range input.Quotes {
		writeTransaction(h, r)
	}
	fmt.Fprint(h, "|")
	for _, r := range input.Orders {
		writeTransaction(h, r)
	}
	fmt.Fprint(h, "|")
	for _, r := range input.Invoices {
		writeTransaction(h, r)
	}
	fmt.Fprint(h, "|")
	for _, r := range input.Inventory {
		fmt.Fprintf(h, "%v;%d;%s;%s;%s;%g\n", r.MonthYear, r.Location, r.Product, r.Reference, r.Description, r.PhysicalQuantity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeTransaction(h io.Writer, r domain.TransactionRow) {
	unit := ""
	if r.UnitValue != nil {
		unit = fmt.Sprintf("%g", *r.UnitValue)
	}
	date := ""
	if r.Date != nil {
		date = r.Date.Format("2006-01-02")
	}
	fmt.Fprintf(h, "%s;%s;%s;%s;%s;%g;%s\n", date, r.Client, r.Representative, r.Product, r.ProductDescription, r.Quantity, unit)
}
