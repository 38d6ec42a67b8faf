package setup

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/aporte/internal/domain"
	"github.com/vadiminshakov/aporte/internal/services/allocator"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"units ok", validateUnits, "12", false},
		{"units zero", validateUnits, "0", false},
		{"units fractional", validateUnits, "1.5", true},
		{"units negative", validateUnits, "-1", true},
		{"units garbage", validateUnits, "ten", true},
		{"cash fractional", validateCashAmount, "1500.75", false},
		{"cash negative", validateCashAmount, "-0.01", true},
		{"contribution ok", validateContribution, "0.01", false},
		{"contribution zero", validateContribution, "0", true},
		{"contribution empty", validateContribution, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLeftoverHint(t *testing.T) {
	done := &domain.AllocationResult{Leftover: decimal.RequireFromString("0.004")}
	assert.Contains(t, LeftoverHint(done, "Renda Fixa CDI"), "whole contribution")

	left := &domain.AllocationResult{Leftover: decimal.RequireFromString("7.5")}
	hint := LeftoverHint(left, "Renda Fixa CDI")
	assert.Contains(t, hint, "7.50")
	assert.Contains(t, hint, "put it into Renda Fixa CDI")

	assert.NotContains(t, LeftoverHint(left, ""), "put it into")
}

func TestRenderReport(t *testing.T) {
	p, err := domain.NewPortfolio([]domain.Asset{
		{ID: "A", Name: "Asset A", TargetWeight: decimal.RequireFromString("0.5")},
		{ID: "CDI", Name: "Renda Fixa CDI", TargetWeight: decimal.RequireFromString("0.5"), Kind: domain.AssetKindCash},
	})
	require.NoError(t, err)
	s, err := allocator.BuildSnapshot(p, nil, map[string]decimal.Decimal{"A": decimal.NewFromInt(10)}, decimal.NewFromInt(105))
	require.NoError(t, err)
	res, err := allocator.New().Allocate(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderReport(&buf, &domain.Report{ID: uuid.New(), Snapshot: s, Result: res, Substituted: []string{"A"}})

	out := buf.String()
	assert.Contains(t, out, "5 units")
	assert.Contains(t, out, "52.50")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, "fallback price used")
	assert.Contains(t, out, "put it into Renda Fixa CDI")
}
