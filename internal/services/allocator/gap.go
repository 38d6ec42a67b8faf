package allocator

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

// divisionPlaces bounds the fractional digits kept when splitting the contribution.
const divisionPlaces = 16

// valuate fills ideal values and gaps against the post-contribution total.
func valuate(s *domain.Snapshot) {
	s.TargetTotal = s.CurrentTotal.Add(s.Contribution)
	for i := range s.Valuations {
		v := &s.Valuations[i]
		v.IdealValue = s.TargetTotal.Mul(v.Asset.TargetWeight)
		v.Gap = v.IdealValue.Sub(v.CurrentValue)
	}
}

// allocation is the cash share assigned to one under-weighted asset.
type allocation struct {
	index int
	cash  decimal.Decimal
}

// splitContribution assigns the contribution to under-weighted assets in proportion to their
// gaps. A nil result means nothing is under-weighted.
func splitContribution(s *domain.Snapshot) ([]allocation, error) {
	totalGap := decimal.Zero
	under := make([]int, 0, len(s.Valuations))
	for i, v := range s.Valuations {
		if v.Gap.IsPositive() {
			under = append(under, i)
			totalGap = totalGap.Add(v.Gap)
		}
	}
	if len(under) == 0 {
		return nil, nil
	}
	if !totalGap.IsPositive() {
		return nil, errors.Wrapf(domain.ErrConfiguration, "total gap %s is not positive for %d under-weighted assets", totalGap.String(), len(under))
	}

	out := make([]allocation, 0, len(under))
	for _, i := range under {
		out = append(out, allocation{
			index: i,
			cash:  divDown(s.Contribution.Mul(s.Valuations[i].Gap), totalGap, divisionPlaces),
		})
	}
	return out, nil
}

// divDown divides two positive decimals truncating to places fractional digits, so the parts
// of a split never add up to more than the whole.
func divDown(d, d2 decimal.Decimal, places int32) decimal.Decimal {
	q, _ := d.QuoRem(d2, places)
	return q
}
