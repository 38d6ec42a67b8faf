package allocator

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

// defaultCashThreshold is the smallest cash amount worth recommending.
var defaultCashThreshold = decimal.RequireFromString("0.01")

// Allocator runs the allocation pipeline over a valued snapshot. It holds no request state and
// is safe for concurrent use.
type Allocator struct {
	cashThreshold decimal.Decimal
}

// Option configures the Allocator.
type Option func(*Allocator)

// WithCashThreshold sets the amount the cash recommendation must exceed to be emitted.
func WithCashThreshold(threshold decimal.Decimal) Option {
	return func(a *Allocator) {
		a.cashThreshold = threshold
	}
}

// New creates an Allocator with default values and optional overrides.
func New(opts ...Option) *Allocator {
	a := &Allocator{cashThreshold: defaultCashThreshold}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate splits the snapshot's contribution proportionally to the value gaps, rounds the
// shares down to whole units, spends the rounding leftover greedily and projects the result.
func (a *Allocator) Allocate(s *domain.Snapshot) (*domain.AllocationResult, error) {
	allocs, err := splitContribution(s)
	if err != nil {
		return nil, err
	}
	if len(allocs) == 0 {
		return domain.NewTerminalResult(domain.ReasonNothingToAllocate, s.Contribution), nil
	}

	d, err := resolve(s, allocs, a.cashThreshold)
	if err != nil {
		return nil, err
	}
	if d.empty() {
		return domain.NewTerminalResult(domain.ReasonNegligibleAllocation, s.Contribution), nil
	}

	if err := d.distribute(); err != nil {
		return nil, err
	}

	recs := d.recommendations()
	spent := decimal.Zero
	for _, r := range recs {
		spent = spent.Add(r.Cost)
	}

	return &domain.AllocationResult{
		Reason:          domain.ReasonAllocated,
		Contribution:    s.Contribution,
		Recommendations: recs,
		Spent:           spent,
		Leftover:        d.leftover,
		Iterations:      d.iterations,
		Projection:      Project(s, recs),
	}, nil
}

// recommendations lists the purchases in configuration order.
func (d *distribution) recommendations() []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(d.units))
	for i, v := range d.snapshot.Valuations {
		var qty decimal.Decimal
		switch {
		case v.Asset.IsCash():
			qty = d.cashAmount
		default:
			qty = decimal.NewFromInt(d.units[i])
		}
		if !qty.IsPositive() {
			continue
		}
		recs = append(recs, domain.Recommendation{
			AssetID:  v.Asset.ID,
			Name:     v.Asset.Name,
			Kind:     v.Asset.Kind,
			Quantity: qty,
			Price:    v.Price,
			Cost:     qty.Mul(v.Price),
		})
	}
	return recs
}
