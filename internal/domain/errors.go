package domain

import "github.com/pkg/errors"

var (
	// ErrInvalidContribution is returned for a contribution that is not strictly positive.
	ErrInvalidContribution = errors.New("contribution must be greater than zero")
	// ErrNoQuotesAvailable is returned when no discrete asset could be priced.
	ErrNoQuotesAvailable = errors.New("no quotes available")
	// ErrMissingQuote is returned when an asset has no price and no fallback is configured.
	ErrMissingQuote = errors.New("missing quote")
	// ErrConfiguration marks invalid static configuration or a violated engine invariant.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidHoldings is returned for holdings that do not fit the portfolio.
	ErrInvalidHoldings = errors.New("invalid holdings")
)
