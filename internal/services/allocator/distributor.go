package allocator

import (
	"github.com/shopspring/decimal"
)

// distribute spends the leftover one unit at a time on the affordable discrete asset that is
// furthest below its ideal value. Ideal values are never recomputed. Ties go to the asset that
// comes first in configuration order.
//
// Every iteration lowers the leftover by at least the cheapest positive price and candidates
// must be affordable, so the loop ends after at most leftover/minPrice iterations.
func (d *distribution) distribute() error {
	if err := requirePositivePrices(d.snapshot); err != nil {
		return err
	}

	for {
		chosen := d.pick()
		if chosen < 0 {
			return nil
		}
		d.units[chosen]++
		d.leftover = d.leftover.Sub(d.snapshot.Valuations[chosen].Price)
		d.iterations++
	}
}

// pick returns the valuation index of the next unit to buy, or -1 when nothing qualifies.
func (d *distribution) pick() int {
	best := -1
	bestGap := decimal.Zero
	for i, v := range d.snapshot.Valuations {
		if v.Asset.IsCash() || v.Price.GreaterThan(d.leftover) {
			continue
		}
		gap := v.IdealValue.Sub(d.projectedValue(i))
		if !gap.IsPositive() {
			continue
		}
		// strict comparison keeps the first asset on ties
		if best < 0 || gap.GreaterThan(bestGap) {
			best, bestGap = i, gap
		}
	}
	return best
}

func (d *distribution) projectedValue(i int) decimal.Decimal {
	v := d.snapshot.Valuations[i]
	return v.Quantity.Add(decimal.NewFromInt(d.units[i])).Mul(v.Price)
}
