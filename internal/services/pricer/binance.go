package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BinancePricer reads last traded prices from the Binance public API. The client does not need
// API keys.
type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

// GetPrice fetches the last price for a spot symbol such as BTCUSDT.
func (p *BinancePricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "binance list prices for %s", symbol)
	}
	if len(prices) == 0 {
		return decimal.Zero, errors.Wrapf(ErrUnknownSymbol, "binance returned empty prices for %s", symbol)
	}

	return parsePrice("binance", symbol, prices[0].Price)
}
