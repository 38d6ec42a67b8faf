package internal

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/aporte/config"
	"github.com/vadiminshakov/aporte/internal/app"
	"github.com/vadiminshakov/aporte/internal/clients"
	"github.com/vadiminshakov/aporte/internal/services/allocator"
	"github.com/vadiminshakov/aporte/internal/services/pricer"
	"github.com/vadiminshakov/aporte/internal/services/quotes"
	"github.com/vadiminshakov/aporte/pkg/retrier"
)

// NewPricers creates one pricer per quote source referenced by the configured assets. Sources
// nobody uses are not initialised, so their credentials are not required.
func NewPricers(cfg *config.Config) (map[string]pricer.Pricer, error) {
	pricers := make(map[string]pricer.Pricer)
	fixed := make(map[string]decimal.Decimal)

	for _, a := range cfg.Assets {
		if a.Source == "" {
			continue
		}
		if a.Source == config.SourceFixed {
			fixed[a.Symbol] = a.Price
			continue
		}
		if _, ok := pricers[a.Source]; ok {
			continue
		}

		p, err := newPricer(cfg, a.Source)
		if err != nil {
			return nil, errors.Wrapf(err, "init %s pricer", a.Source)
		}
		pricers[a.Source] = p
	}
	if len(fixed) > 0 {
		pricers[config.SourceFixed] = pricer.NewFixedPricer(fixed)
	}

	return pricers, nil
}

func newPricer(cfg *config.Config, source string) (pricer.Pricer, error) {
	creds := cfg.Credentials
	switch source {
	case config.SourceYahoo:
		return pricer.NewYahooPricer(), nil
	case config.SourceBinance:
		return pricer.NewBinancePricer(clients.NewBinanceClient(creds.BinanceAPIKey, creds.BinanceAPISecret)), nil
	case config.SourceBybit:
		return pricer.NewBybitPricer(clients.NewBybitClient(creds.BybitAPIKey, creds.BybitAPISecret)), nil
	case config.SourceHyperliquid:
		c, err := clients.NewHyperliquidClient(creds.HyperliquidPrivateKey, cfg.HyperliquidBaseURL)
		if err != nil {
			return nil, err
		}
		return pricer.NewHyperliquidPricer(c.Info()), nil
	case config.SourceAlpaca:
		if creds.AlpacaAPIKey == "" || creds.AlpacaAPISecret == "" {
			return nil, errors.New("ALPACA_API_KEY and ALPACA_API_SECRET environment variables must be set")
		}
		return pricer.NewAlpacaPricer(clients.NewAlpacaMarketDataClient(creds.AlpacaAPIKey, creds.AlpacaAPISecret, cfg.AlpacaBaseURL)), nil
	default:
		return nil, errors.Errorf("unsupported quote source %q", source)
	}
}

// NewQuoteProvider wires pricers into a cached, retrying router.
func NewQuoteProvider(cfg *config.Config, logger *zap.Logger, pricers map[string]pricer.Pricer) (quotes.Provider, error) {
	routes := make([]quotes.Route, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		if a.Source == "" {
			continue
		}
		routes = append(routes, quotes.Route{AssetID: a.ID, Source: a.Source, Symbol: a.Symbol})
	}

	rt := retrier.New(
		retrier.WithMaxRetries(cfg.Quotes.Retries),
		retrier.WithInitialInterval(cfg.Quotes.InitialInterval),
		retrier.WithMaxInterval(cfg.Quotes.Timeout),
		retrier.WithRetryIf(func(err error) bool { return !pricer.IsPermanent(err) }),
		retrier.WithOnRetry(func(attempt int, err error) {
			logger.Debug("retrying quote", zap.Int("attempt", attempt), zap.Error(err))
		}),
	)

	router, err := quotes.NewRouter(logger, routes, pricers,
		quotes.WithRetrier(rt),
		quotes.WithConcurrency(cfg.Quotes.Concurrency))
	if err != nil {
		return nil, err
	}

	return quotes.NewCachedProvider(router, cfg.Quotes.CacheTTL), nil
}

// NewRebalancer builds the rebalancer for cfg. journal may be nil.
func NewRebalancer(cfg *config.Config, logger *zap.Logger, provider quotes.Provider, journal app.Journal) (*app.Rebalancer, error) {
	portfolio, err := cfg.Portfolio()
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithFallbackPrice(cfg.FallbackPrice),
		app.WithQuoteTimeout(cfg.Quotes.Timeout),
		app.WithAllocator(allocator.New(allocator.WithCashThreshold(cfg.CashThreshold))),
	}
	if journal != nil {
		opts = append(opts, app.WithJournal(journal))
	}

	return app.NewRebalancer(logger, portfolio, provider, opts...), nil
}
