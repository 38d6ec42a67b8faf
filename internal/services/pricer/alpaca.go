package pricer

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// QuoteSource is the part of *marketdata.Client used for latest quotes.
type QuoteSource interface {
	GetLatestQuotes(symbols []string, req marketdata.GetLatestQuoteRequest) (map[string]marketdata.Quote, error)
}

// AlpacaPricer prices US equities from the latest Alpaca quote.
type AlpacaPricer struct {
	client QuoteSource
}

func NewAlpacaPricer(client QuoteSource) *AlpacaPricer {
	return &AlpacaPricer{client: client}
}

// GetPrice returns the bid/ask midpoint, or whichever side is quoted.
func (p *AlpacaPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	quotes, err := p.client.GetLatestQuotes([]string{symbol}, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "alpaca latest quote for %s", symbol)
	}
	q, ok := quotes[symbol]
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrUnknownSymbol, "alpaca returned no quote for %s", symbol)
	}

	bid := decimal.NewFromFloat(q.BidPrice)
	ask := decimal.NewFromFloat(q.AskPrice)
	switch {
	case bid.IsPositive() && ask.IsPositive():
		return bid.Add(ask).Div(decimal.NewFromInt(2)), nil
	case bid.IsPositive():
		return bid, nil
	case ask.IsPositive():
		return ask, nil
	}
	return decimal.Zero, errors.Errorf("alpaca returned zero quote for %s", symbol)
}
