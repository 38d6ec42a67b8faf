// Package app runs allocation requests end to end: quotes, valuation, allocation and journaling.
package app

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
	"github.com/vadiminshakov/aporte/internal/metrics"
	"github.com/vadiminshakov/aporte/internal/services/allocator"
	"github.com/vadiminshakov/aporte/internal/services/quotes"
	"go.uber.org/zap"
)

const defaultQuoteTimeout = 20 * time.Second

// Journal stores completed reports.
type Journal interface {
	Save(report domain.Report) (uint64, error)
}

// Rebalancer answers "what should I buy with this contribution" for a fixed portfolio. It is
// safe for concurrent use; every call works on its own snapshot.
type Rebalancer struct {
	logger       *zap.Logger
	portfolio    *domain.Portfolio
	provider     quotes.Provider
	allocator    *allocator.Allocator
	journal      Journal
	fallback     *decimal.Decimal
	quoteTimeout time.Duration
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Rebalancer)

// WithJournal records every successful report.
func WithJournal(j Journal) Option {
	return func(r *Rebalancer) {
		r.journal = j
	}
}

// WithFallbackPrice prices discrete assets without a quote at price. Nil makes a missing quote
// an error.
func WithFallbackPrice(price *decimal.Decimal) Option {
	return func(r *Rebalancer) {
		r.fallback = price
	}
}

// WithQuoteTimeout bounds the time spent fetching quotes for one request.
func WithQuoteTimeout(d time.Duration) Option {
	return func(r *Rebalancer) {
		if d > 0 {
			r.quoteTimeout = d
		}
	}
}

func WithAllocator(a *allocator.Allocator) Option {
	return func(r *Rebalancer) {
		r.allocator = a
	}
}

func NewRebalancer(logger *zap.Logger, portfolio *domain.Portfolio, provider quotes.Provider, opts ...Option) *Rebalancer {
	r := &Rebalancer{
		logger:       logger,
		portfolio:    portfolio,
		provider:     provider,
		allocator:    allocator.New(),
		quoteTimeout: defaultQuoteTimeout,
		metrics:      metrics.Get(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rebalancer) Portfolio() *domain.Portfolio {
	return r.portfolio
}

// Rebalance prices the portfolio, allocates contribution and journals the report.
func (r *Rebalancer) Rebalance(ctx context.Context, holdings domain.Holdings, contribution decimal.Decimal) (*domain.Report, error) {
	report, err := r.rebalance(ctx, holdings, contribution)
	if err != nil {
		r.metrics.RecordAllocationError()
		r.logger.Warn("allocation failed", zap.String("contribution", contribution.String()), zap.Error(err))
		return nil, err
	}

	res := report.Result
	r.metrics.RecordAllocation(string(res.Reason), res.Iterations, res.Leftover.InexactFloat64())
	r.logger.Info("allocation completed",
		zap.String("id", report.ID.String()),
		zap.String("reason", string(res.Reason)),
		zap.String("contribution", contribution.String()),
		zap.String("spent", res.Spent.String()),
		zap.String("leftover", res.Leftover.String()),
		zap.Int("purchases", len(res.Recommendations)),
		zap.Int("iterations", res.Iterations))

	if r.journal != nil {
		if _, err := r.journal.Save(*report); err != nil {
			r.logger.Error("failed to journal allocation report", zap.String("id", report.ID.String()), zap.Error(err))
		}
	}

	return report, nil
}

func (r *Rebalancer) rebalance(ctx context.Context, holdings domain.Holdings, contribution decimal.Decimal) (*domain.Report, error) {
	if !contribution.IsPositive() {
		return nil, errors.Wrapf(domain.ErrInvalidContribution, "got %s", contribution.String())
	}
	if err := holdings.Validate(r.portfolio); err != nil {
		return nil, err
	}

	prices, substituted, err := r.resolvePrices(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := allocator.BuildSnapshot(r.portfolio, holdings, prices, contribution)
	if err != nil {
		return nil, err
	}
	result, err := r.allocator.Allocate(snapshot)
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		ID:          uuid.New(),
		CreatedAt:   r.now().UTC(),
		Snapshot:    snapshot,
		Result:      result,
		Substituted: substituted,
	}, nil
}

// resolvePrices fetches quotes for discrete assets and fills the gaps with the fallback price.
func (r *Rebalancer) resolvePrices(ctx context.Context) (map[string]decimal.Decimal, []string, error) {
	ids := r.portfolio.DiscreteIDs()
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil, nil
	}

	qctx, cancel := context.WithTimeout(ctx, r.quoteTimeout)
	defer cancel()

	fetched, err := r.provider.Fetch(qctx, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch quotes")
	}

	prices := make(map[string]decimal.Decimal, len(ids))
	var missing []string
	for _, id := range ids {
		if p, ok := fetched[id]; ok {
			prices[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(prices) == 0 {
		return nil, nil, errors.Wrapf(domain.ErrNoQuotesAvailable, "none of %d assets could be priced", len(ids))
	}
	if len(missing) == 0 {
		return prices, nil, nil
	}

	sort.Strings(missing)
	if r.fallback == nil {
		return nil, nil, errors.Wrapf(domain.ErrMissingQuote, "assets %v", missing)
	}
	for _, id := range missing {
		r.logger.Warn("no quote for asset, using fallback price",
			zap.String("asset", id),
			zap.String("price", r.fallback.String()))
		prices[id] = *r.fallback
	}
	return prices, missing, nil
}
