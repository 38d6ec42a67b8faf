// Command aporte tells you what to buy with a new contribution so that your portfolio moves
// towards its target weights, buying whole units of listed assets only.
//
// Usage:
//
//	aporte                                    (interactive wizard, built-in portfolio)
//	aporte --config portfolio.yaml --mode once --holdings holdings.csv --contribution 1500
//	aporte --config portfolio.yaml --mode serve --addr :8080
//
// Optional environment variables, only read for the quote sources in use:
//
//	BINANCE_API_KEY, BINANCE_API_SECRET
//	BYBIT_API_KEY, BYBIT_API_SECRET
//	HYPERLIQUID_PRIVATE_KEY
//	ALPACA_API_KEY, ALPACA_API_SECRET (required for the alpaca source)
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vadiminshakov/aporte/config"
	"github.com/vadiminshakov/aporte/internal"
	"github.com/vadiminshakov/aporte/internal/holdings"
	"github.com/vadiminshakov/aporte/internal/setup"
	"github.com/vadiminshakov/aporte/internal/storage/allocations"
	"github.com/vadiminshakov/aporte/internal/web"
)

func main() {
	cfg, err := config.Get(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if sum := cfg.WeightSum(); !sum.Equal(decimalOne) {
		logger.Warn("target weights do not sum to 1", zap.String("sum", sum.String()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pricers, err := internal.NewPricers(cfg)
	if err != nil {
		logger.Fatal("failed to init pricers", zap.Error(err))
	}
	provider, err := internal.NewQuoteProvider(cfg, logger, pricers)
	if err != nil {
		logger.Fatal("failed to init quote provider", zap.Error(err))
	}

	journal, err := allocations.NewWALStore(cfg.JournalDir)
	if err != nil {
		logger.Fatal("failed to open allocation journal", zap.Error(err))
	}
	defer journal.Close()

	rb, err := internal.NewRebalancer(cfg, logger, provider, journal)
	if err != nil {
		logger.Fatal("invalid portfolio", zap.Error(err))
	}

	switch cfg.Mode {
	case config.ModeServe:
		srv := web.NewServer(cfg.Addr, logger, rb, journal)
		if len(cfg.TLSDomains) > 0 {
			err = srv.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.CertCache)
		} else {
			err = srv.Start(ctx)
		}
		if err != nil {
			logger.Fatal("web server stopped", zap.Error(err))
		}
	case config.ModeOnce:
		f, err := holdings.Load(cfg.HoldingsPath)
		if err != nil {
			logger.Fatal("failed to load holdings", zap.String("path", cfg.HoldingsPath), zap.Error(err))
		}
		contribution := cfg.Contribution
		if contribution.IsZero() {
			contribution = f.Contribution
		}
		if err := runOnce(ctx, rb, f.Holdings, contribution); err != nil {
			logger.Fatal("allocation failed", zap.Error(err))
		}
	default:
		f, err := setup.RunWizard(rb.Portfolio(), cfg.HoldingsPath)
		if errors.Is(err, setup.ErrCancelled) {
			return
		}
		if err != nil {
			logger.Fatal("wizard failed", zap.Error(err))
		}
		if err := runOnce(ctx, rb, f.Holdings, f.Contribution); err != nil {
			logger.Fatal("allocation failed", zap.Error(err))
		}
	}
}
