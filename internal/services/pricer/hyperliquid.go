package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MidsSource lists mid prices keyed by coin. *hyperliquid.Info implements it.
type MidsSource interface {
	AllMids(ctx context.Context) (map[string]string, error)
}

// HyperliquidPricer fetches prices from Hyperliquid public Info API.
type HyperliquidPricer struct {
	info MidsSource
}

func NewHyperliquidPricer(info MidsSource) *HyperliquidPricer {
	return &HyperliquidPricer{info: info}
}

// GetPrice returns the mid price for a base coin such as BTC.
func (p *HyperliquidPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.info == nil {
		return decimal.Zero, errors.New("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "hyperliquid all mids")
	}

	mid, ok := mids[symbol]
	if !ok || mid == "" {
		return decimal.Zero, errors.Wrapf(ErrUnknownSymbol, "hyperliquid returned empty mid price for %s", symbol)
	}
	return parsePrice("hyperliquid", symbol, mid)
}
