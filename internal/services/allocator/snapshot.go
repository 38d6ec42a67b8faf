// Package allocator splits a cash contribution across a portfolio so that post-purchase
// weights move towards their targets, buying discrete assets in whole units only.
package allocator

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

// BuildSnapshot joins the portfolio, the current holdings and resolved prices into a valued
// snapshot. Every discrete asset must have a price; the cash asset is always priced at 1.
func BuildSnapshot(p *domain.Portfolio, holdings domain.Holdings, prices map[string]decimal.Decimal, contribution decimal.Decimal) (*domain.Snapshot, error) {
	if contribution.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Wrapf(domain.ErrInvalidContribution, "got %s", contribution.String())
	}
	if err := holdings.Validate(p); err != nil {
		return nil, err
	}

	assets := p.Assets()
	s := &domain.Snapshot{
		Contribution: contribution,
		CurrentTotal: decimal.Zero,
		Valuations:   make([]domain.Valuation, 0, len(assets)),
	}
	for _, a := range assets {
		price := domain.CashPrice
		if !a.IsCash() {
			var ok bool
			price, ok = prices[a.ID]
			if !ok {
				return nil, errors.Wrapf(domain.ErrMissingQuote, "asset %s", a.ID)
			}
		}

		qty := holdings.Quantity(a.ID)
		v := domain.Valuation{
			Position:     domain.Position{Asset: a, Quantity: qty, Price: price},
			CurrentValue: qty.Mul(price),
		}
		s.CurrentTotal = s.CurrentTotal.Add(v.CurrentValue)
		s.Valuations = append(s.Valuations, v)
	}

	valuate(s)
	return s, nil
}
