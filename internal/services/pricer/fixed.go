package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FixedPricer serves prices set in configuration, for assets without a market feed.
type FixedPricer struct {
	prices map[string]decimal.Decimal
}

func NewFixedPricer(prices map[string]decimal.Decimal) *FixedPricer {
	cp := make(map[string]decimal.Decimal, len(prices))
	for k, v := range prices {
		cp[k] = v
	}
	return &FixedPricer{prices: cp}
}

func (p *FixedPricer) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := p.prices[symbol]
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrUnknownSymbol, "no fixed price for %s", symbol)
	}
	return price, nil
}
