package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/aporte/config"
	"github.com/vadiminshakov/aporte/internal/domain"
	"go.uber.org/zap"
)

func fixedConfig() *config.Config {
	one := decimal.NewFromInt(1)
	return &config.Config{
		Assets: []config.AssetConfig{
			{ID: "GOLD", Name: "Gold", TargetWeight: decimal.RequireFromString("0.5"), Source: config.SourceFixed, Symbol: "GOLD", Price: decimal.NewFromInt(10)},
			{ID: "SILVER", Name: "Silver", TargetWeight: decimal.RequireFromString("0.25"), Source: config.SourceFixed, Symbol: "SILVER", Price: decimal.NewFromInt(3)},
			{ID: "CDI", Name: "Cash", TargetWeight: decimal.RequireFromString("0.25"), Kind: domain.AssetKindCash},
		},
		CashThreshold: decimal.RequireFromString("0.01"),
		FallbackPrice: &one,
		Quotes: config.QuotesConfig{
			Timeout:         time.Second,
			Retries:         1,
			InitialInterval: time.Millisecond,
			CacheTTL:        time.Minute,
			Concurrency:     2,
		},
	}
}

func TestNewPricers(t *testing.T) {
	pricers, err := NewPricers(fixedConfig())
	require.NoError(t, err)
	require.Len(t, pricers, 1)

	price, err := pricers[config.SourceFixed].GetPrice(context.Background(), "SILVER")
	require.NoError(t, err)
	assert.Equal(t, "3", price.String())
}

func TestNewPricers_AlpacaNeedsCredentials(t *testing.T) {
	cfg := fixedConfig()
	cfg.Assets = append(cfg.Assets, config.AssetConfig{ID: "VOO", Source: config.SourceAlpaca, Symbol: "VOO"})

	_, err := NewPricers(cfg)
	assert.ErrorContains(t, err, "ALPACA_API_KEY")
}

func TestNewRebalancer_EndToEnd(t *testing.T) {
	cfg := fixedConfig()
	logger := zap.NewNop()

	pricers, err := NewPricers(cfg)
	require.NoError(t, err)
	provider, err := NewQuoteProvider(cfg, logger, pricers)
	require.NoError(t, err)
	rb, err := NewRebalancer(cfg, logger, provider, nil)
	require.NoError(t, err)

	report, err := rb.Rebalance(context.Background(), domain.Holdings{}, decimal.NewFromInt(100))
	require.NoError(t, err)

	res := report.Result
	gold, ok := res.Recommendation("GOLD")
	require.True(t, ok)
	assert.Equal(t, "5", gold.Quantity.String())
	silver, ok := res.Recommendation("SILVER")
	require.True(t, ok)
	assert.Equal(t, "8", silver.Quantity.String())
	cash, ok := res.Recommendation("CDI")
	require.True(t, ok)
	assert.Equal(t, "25", cash.Quantity.String())
	assert.Equal(t, "1", res.Leftover.String())
}
