package domain

import "github.com/shopspring/decimal"

// Reason explains how an allocation request ended.
type Reason string

const (
	// ReasonAllocated means at least one purchase was recommended.
	ReasonAllocated Reason = "allocated"
	// ReasonNothingToAllocate means every asset is at or above its target.
	ReasonNothingToAllocate Reason = "nothing_to_allocate"
	// ReasonNegligibleAllocation means the proportional split bought nothing.
	ReasonNegligibleAllocation Reason = "negligible_allocation"
)

// Message returns the human readable explanation of the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonNothingToAllocate:
		return "all assets are already at or above their target weight"
	case ReasonNegligibleAllocation:
		return "the contribution is too small to buy any asset"
	default:
		return ""
	}
}

// Recommendation is one suggested purchase. For the cash asset Quantity is a currency amount,
// otherwise it is a whole number of units.
type Recommendation struct {
	AssetID  string          `json:"asset_id"`
	Name     string          `json:"name"`
	Kind     AssetKind       `json:"kind"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
}

// ProjectedPosition is an asset after all recommended purchases.
type ProjectedPosition struct {
	AssetID      string          `json:"asset_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Purchased    decimal.Decimal `json:"purchased"`
	Value        decimal.Decimal `json:"value"`
	Weight       decimal.Decimal `json:"weight"`
	TargetWeight decimal.Decimal `json:"target_weight"`
	// Drift is Weight - TargetWeight.
	Drift decimal.Decimal `json:"drift"`
}

// DriftStats summarises absolute weight deviations from target, in weight units.
type DriftStats struct {
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Projection is the portfolio after all recommended purchases.
type Projection struct {
	TotalValue  decimal.Decimal     `json:"total_value"`
	Positions   []ProjectedPosition `json:"positions"`
	DriftBefore DriftStats          `json:"drift_before"`
	DriftAfter  DriftStats          `json:"drift_after"`
}

// AllocationResult is the outcome of one allocation request.
type AllocationResult struct {
	Reason          Reason           `json:"reason"`
	Message         string           `json:"message,omitempty"`
	Contribution    decimal.Decimal  `json:"contribution"`
	Recommendations []Recommendation `json:"recommendations"`
	Spent           decimal.Decimal  `json:"spent"`
	Leftover        decimal.Decimal  `json:"leftover"`
	// Iterations counts units bought by the remainder distributor.
	Iterations int         `json:"iterations"`
	Projection *Projection `json:"projection,omitempty"`
}

// NewTerminalResult builds a result with no purchases for a non-allocating reason.
func NewTerminalResult(reason Reason, contribution decimal.Decimal) *AllocationResult {
	return &AllocationResult{
		Reason:          reason,
		Message:         reason.Message(),
		Contribution:    contribution,
		Recommendations: []Recommendation{},
		Spent:           decimal.Zero,
		Leftover:        contribution,
	}
}

// Recommendation returns the recommendation for an asset, if any.
func (r *AllocationResult) Recommendation(assetID string) (Recommendation, bool) {
	for _, rec := range r.Recommendations {
		if rec.AssetID == assetID {
			return rec, true
		}
	}
	return Recommendation{}, false
}
