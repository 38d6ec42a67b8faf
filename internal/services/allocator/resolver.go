package allocator

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

// distribution is the mutable purchase state of a single allocation request.
type distribution struct {
	snapshot *domain.Snapshot
	// units holds whole units bought per valuation index.
	units []int64
	// cashAmount is the currency amount assigned to the cash asset.
	cashAmount decimal.Decimal
	leftover   decimal.Decimal
	iterations int
}

func (d *distribution) empty() bool {
	if d.cashAmount.IsPositive() {
		return false
	}
	for _, u := range d.units {
		if u > 0 {
			return false
		}
	}
	return true
}

// resolve turns the cash split into whole units (or a currency amount for the cash asset)
// and computes the leftover.
func resolve(s *domain.Snapshot, allocs []allocation, cashThreshold decimal.Decimal) (*distribution, error) {
	if err := requirePositivePrices(s); err != nil {
		return nil, err
	}

	d := &distribution{
		snapshot:   s,
		units:      make([]int64, len(s.Valuations)),
		cashAmount: decimal.Zero,
		leftover:   s.Contribution,
	}
	for _, a := range allocs {
		v := s.Valuations[a.index]
		if v.Asset.IsCash() {
			if a.cash.GreaterThan(cashThreshold) {
				d.cashAmount = a.cash
				d.leftover = d.leftover.Sub(a.cash)
			}
			continue
		}

		units, _ := a.cash.QuoRem(v.Price, 0)
		if !units.IsPositive() {
			continue
		}
		d.units[a.index] = units.IntPart()
		d.leftover = d.leftover.Sub(units.Mul(v.Price))
	}

	if d.leftover.IsNegative() {
		return nil, errors.Wrapf(domain.ErrConfiguration, "initial purchases overspend the contribution by %s", d.leftover.Neg().String())
	}
	return d, nil
}

func requirePositivePrices(s *domain.Snapshot) error {
	for _, v := range s.Valuations {
		if !v.Asset.IsCash() && !v.Price.IsPositive() {
			return errors.Wrapf(domain.ErrConfiguration, "asset %s has non-positive price %s", v.Asset.ID, v.Price.String())
		}
	}
	return nil
}
