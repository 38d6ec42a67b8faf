package quotes

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/metrics"
	"github.com/vadiminshakov/aporte/internal/services/pricer"
	"github.com/vadiminshakov/aporte/pkg/retrier"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Router fans quote lookups out to per-source pricers with bounded concurrency and retries.
type Router struct {
	logger      *zap.Logger
	routes      map[string]Route
	pricers     map[string]pricer.Pricer
	retrier     *retrier.Retrier
	concurrency int
	metrics     *metrics.Metrics
}

type RouterOption func(*Router)

// WithConcurrency limits the number of quotes fetched at once.
func WithConcurrency(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRetrier sets the retry policy applied to every lookup.
func WithRetrier(rt *retrier.Retrier) RouterOption {
	return func(r *Router) {
		r.retrier = rt
	}
}

// NewRouter validates that every route points at a registered pricer.
func NewRouter(logger *zap.Logger, routes []Route, pricers map[string]pricer.Pricer, opts ...RouterOption) (*Router, error) {
	r := &Router{
		logger:      logger,
		routes:      make(map[string]Route, len(routes)),
		pricers:     pricers,
		concurrency: defaultConcurrency,
		metrics:     metrics.Get(),
	}
	for _, route := range routes {
		if _, ok := pricers[route.Source]; !ok {
			return nil, errors.Errorf("asset %s: no pricer registered for source %q", route.AssetID, route.Source)
		}
		if route.Symbol == "" {
			route.Symbol = route.AssetID
		}
		r.routes[route.AssetID] = route
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.retrier == nil {
		r.retrier = retrier.New(
			retrier.WithMaxRetries(2),
			retrier.WithInitialInterval(200*time.Millisecond),
			retrier.WithRetryIf(func(err error) bool { return !pricer.IsPermanent(err) }),
		)
	}

	return r, nil
}

// Fetch prices every routed id. Failed lookups are logged and left out of the result. An error
// is returned only when ctx is cancelled.
func (r *Router) Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	var (
		mu     sync.Mutex
		prices = make(map[string]decimal.Decimal, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, id := range dedupe(ids) {
		route, ok := r.routes[id]
		if !ok {
			r.logger.Warn("no quote route for asset", zap.String("asset", id))
			continue
		}

		g.Go(func() error {
			price, err := r.fetchOne(gctx, route)
			if err != nil {
				r.logger.Warn("failed to fetch quote",
					zap.String("asset", route.AssetID),
					zap.String("source", route.Source),
					zap.String("symbol", route.Symbol),
					zap.Error(err))
				return nil
			}

			mu.Lock()
			prices[route.AssetID] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, errors.Wrap(ctx.Err(), "fetch quotes")
	}

	return prices, nil
}

func (r *Router) fetchOne(ctx context.Context, route Route) (decimal.Decimal, error) {
	p := r.pricers[route.Source]
	start := time.Now()

	price, err := retrier.DoWithData(r.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return p.GetPrice(ctx, route.Symbol)
	})
	r.metrics.RecordQuote(route.Source, time.Since(start), err)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Errorf("non-positive price %s", price.String())
	}

	return price, nil
}
