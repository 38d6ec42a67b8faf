// Package quotes resolves current prices for portfolio assets by routing each one to the market
// data venue it is listed on.
package quotes

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider returns prices for the requested asset ids. Ids that could not be priced are
// omitted from the result rather than failing the whole request.
type Provider interface {
	Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}

// Route maps a portfolio asset to a symbol on a quote source.
type Route struct {
	AssetID string
	Source  string
	Symbol  string
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
