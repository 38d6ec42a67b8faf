// Package pricer fetches the latest price of a single symbol from a market data venue.
package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned when the venue does not list the symbol. It is permanent and
// should not be retried.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Pricer returns the latest price of a symbol.
type Pricer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// IsPermanent reports whether err will not go away on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUnknownSymbol) || errors.Is(err, context.Canceled)
}

func parsePrice(venue, symbol, raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "%s returned malformed price %q for %s", venue, raw, symbol)
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Errorf("%s returned non-positive price %s for %s", venue, price.String(), symbol)
	}
	return price, nil
}
