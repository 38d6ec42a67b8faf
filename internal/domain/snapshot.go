package domain

import "github.com/shopspring/decimal"

// Position is a held quantity joined with its asset configuration and price.
type Position struct {
	Asset    Asset           `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Valuation is a position augmented with the values derived for one allocation request.
type Valuation struct {
	Position
	CurrentValue decimal.Decimal `json:"current_value"`
	// IdealValue is the target share of the post-contribution total. It is computed once.
	IdealValue decimal.Decimal `json:"ideal_value"`
	// Gap is IdealValue - CurrentValue; positive means under-weighted.
	Gap decimal.Decimal `json:"gap"`
}

// Snapshot is the valued portfolio for one request, in configuration order.
type Snapshot struct {
	Contribution decimal.Decimal `json:"contribution"`
	CurrentTotal decimal.Decimal `json:"current_total"`
	// TargetTotal is CurrentTotal + Contribution.
	TargetTotal decimal.Decimal `json:"target_total"`
	Valuations  []Valuation     `json:"valuations"`
}

// CurrentWeight returns the pre-contribution weight of the i-th valuation.
func (s *Snapshot) CurrentWeight(i int) decimal.Decimal {
	if s.CurrentTotal.IsZero() {
		return decimal.Zero
	}
	return s.Valuations[i].CurrentValue.Div(s.CurrentTotal)
}
