package domain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Portfolio is the immutable, ordered asset table. The order is the tie-break order of the
// remainder distributor.
type Portfolio struct {
	assets []Asset
	index  map[string]int
	cash   int
}

// NewPortfolio validates the assets and freezes them in the given order.
// Target weights are not required to sum to one.
func NewPortfolio(assets []Asset) (*Portfolio, error) {
	if len(assets) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "portfolio has no assets")
	}

	p := &Portfolio{
		assets: make([]Asset, 0, len(assets)),
		index:  make(map[string]int, len(assets)),
		cash:   -1,
	}
	for _, a := range assets {
		if err := a.validate(); err != nil {
			return nil, errors.Wrap(ErrConfiguration, err.Error())
		}
		if _, dup := p.index[a.ID]; dup {
			return nil, errors.Wrapf(ErrConfiguration, "duplicate asset id %s", a.ID)
		}
		if a.IsCash() {
			if p.cash >= 0 {
				return nil, errors.Wrapf(ErrConfiguration, "only one cash asset allowed, got %s and %s", p.assets[p.cash].ID, a.ID)
			}
			p.cash = len(p.assets)
		}
		p.index[a.ID] = len(p.assets)
		p.assets = append(p.assets, a)
	}

	return p, nil
}

// Assets returns a copy of the configured assets in configuration order.
func (p *Portfolio) Assets() []Asset {
	out := make([]Asset, len(p.assets))
	copy(out, p.assets)
	return out
}

// Len returns the number of configured assets.
func (p *Portfolio) Len() int {
	return len(p.assets)
}

// Asset looks an asset up by id.
func (p *Portfolio) Asset(id string) (Asset, bool) {
	i, ok := p.index[id]
	if !ok {
		return Asset{}, false
	}
	return p.assets[i], true
}

// CashAsset returns the cash-equivalent asset, if one is configured.
func (p *Portfolio) CashAsset() (Asset, bool) {
	if p.cash < 0 {
		return Asset{}, false
	}
	return p.assets[p.cash], true
}

// DiscreteIDs returns the ids of every discrete asset in configuration order.
func (p *Portfolio) DiscreteIDs() []string {
	ids := make([]string, 0, len(p.assets))
	for _, a := range p.assets {
		if !a.IsCash() {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// TargetSum returns the sum of all target weights.
func (p *Portfolio) TargetSum() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range p.assets {
		sum = sum.Add(a.TargetWeight)
	}
	return sum
}

// Holdings maps asset id to the quantity currently held. Discrete quantities are unit counts,
// the cash quantity is a currency amount.
type Holdings map[string]decimal.Decimal

// Validate checks the holdings against the portfolio: ids must be known, quantities
// non-negative and discrete quantities integral.
func (h Holdings) Validate(p *Portfolio) error {
	for id, qty := range h {
		asset, ok := p.Asset(id)
		if !ok {
			return errors.Wrapf(ErrInvalidHoldings, "unknown asset %s", id)
		}
		if qty.IsNegative() {
			return errors.Wrapf(ErrInvalidHoldings, "asset %s: quantity must be non-negative, got %s", id, qty.String())
		}
		if !asset.IsCash() && !qty.Equal(qty.Truncate(0)) {
			return errors.Wrapf(ErrInvalidHoldings, "asset %s: quantity must be a whole number of units, got %s", id, qty.String())
		}
	}
	return nil
}

// Quantity returns the held quantity for id, zero when absent.
func (h Holdings) Quantity(id string) decimal.Decimal {
	if qty, ok := h[id]; ok {
		return qty
	}
	return decimal.Zero
}

func (p *Portfolio) String() string {
	return fmt.Sprintf("Portfolio(%d assets)", len(p.assets))
}
