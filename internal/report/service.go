// Package report builds the read-only views over stored ledgers: the
// monthly dashboard and the multi-period comparison.
package report

import (
	"context"
	"fmt"
	"time"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const (
	ckDashboard            = "dashboard_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Reader is the part of the ledger store the reports need.
type Reader interface {
	GetPeriod(ctx context.Context, period models.Period) (models.Ledger, error)
	ListPeriods(ctx context.Context) ([]models.Period, error)
	GetPeriodsRange(ctx context.Context, periods []models.Period) ([]models.Ledger, error)
}

// Options tune the dashboard.
type Options struct {
	MinimumWage decimal.Decimal
	TopN        int
	// CategoryOrder is the display order of expense categories; categories
	// not listed follow alphabetically.
	CategoryOrder []string
}

// DefaultOptions returns the options of the current report revision.
func DefaultOptions() Options {
	return Options{
		MinimumWage: decimal.RequireFromString(models.DefaultMinimumWage),
		TopN:        models.DefaultTopN,
	}
}

// Service answers report queries, caching dashboards per period.
type Service struct {
	store  Reader
	opts   Options
	cache  *cache.Cache
	logger logging.Logger
}

// NewService creates a report service over store.
func NewService(store Reader, opts Options, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.TopN <= 0 {
		opts.TopN = models.DefaultTopN
	}
	if !opts.MinimumWage.IsPositive() {
		opts.MinimumWage = decimal.RequireFromString(models.DefaultMinimumWage)
	}
	return &Service{
		store:  store,
		opts:   opts,
		cache:  cache.New(DefaultCacheExpiration, CacheCleanupInterval),
		logger: logger,
	}
}

// Periods lists the stored periods, newest first.
func (s *Service) Periods(ctx context.Context) ([]models.Period, error) {
	return s.store.ListPeriods(ctx)
}

// Invalidate drops the cached views of period.
func (s *Service) Invalidate(period models.Period) {
	s.cache.Delete(fmt.Sprintf(ckDashboard, period))
	s.logger.WithField(logging.FieldPeriod, period.String()).Debug("Report cache invalidated")
}

// InvalidateAll drops every cached view.
func (s *Service) InvalidateAll() {
	s.cache.Flush()
}
