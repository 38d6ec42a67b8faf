package allocator

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

// Project computes final quantities, values and weights for every asset of the snapshot after
// applying recs. It does not modify its inputs.
func Project(s *domain.Snapshot, recs []domain.Recommendation) *domain.Projection {
	purchased := make(map[string]decimal.Decimal, len(recs))
	for _, r := range recs {
		purchased[r.AssetID] = purchased[r.AssetID].Add(r.Quantity)
	}

	p := &domain.Projection{
		TotalValue: decimal.Zero,
		Positions:  make([]domain.ProjectedPosition, 0, len(s.Valuations)),
	}
	for _, v := range s.Valuations {
		bought := purchased[v.Asset.ID]
		qty := v.Quantity.Add(bought)
		value := qty.Mul(v.Price)
		p.TotalValue = p.TotalValue.Add(value)
		p.Positions = append(p.Positions, domain.ProjectedPosition{
			AssetID:      v.Asset.ID,
			Name:         v.Asset.Name,
			Quantity:     qty,
			Purchased:    bought,
			Value:        value,
			TargetWeight: v.Asset.TargetWeight,
		})
	}

	after := make([]float64, 0, len(p.Positions))
	for i := range p.Positions {
		pos := &p.Positions[i]
		pos.Weight = decimal.Zero
		if p.TotalValue.IsPositive() {
			pos.Weight = pos.Value.Div(p.TotalValue)
		}
		pos.Drift = pos.Weight.Sub(pos.TargetWeight)
		after = append(after, pos.Drift.Abs().InexactFloat64())
	}

	before := make([]float64, 0, len(s.Valuations))
	for i, v := range s.Valuations {
		before = append(before, s.CurrentWeight(i).Sub(v.Asset.TargetWeight).Abs().InexactFloat64())
	}

	p.DriftBefore = summarizeDrift(before)
	p.DriftAfter = summarizeDrift(after)
	return p
}

func summarizeDrift(abs []float64) domain.DriftStats {
	if len(abs) == 0 {
		return domain.DriftStats{}
	}
	maxDrift, _ := stats.Max(abs)
	meanDrift, _ := stats.Mean(abs)
	return domain.DriftStats{Max: maxDrift, Mean: meanDrift}
}
