package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(id, weight string, kind AssetKind) Asset {
	return Asset{ID: id, Name: id, TargetWeight: decimal.RequireFromString(weight), Kind: kind}
}

func TestNewPortfolio(t *testing.T) {
	tests := []struct {
		name    string
		assets  []Asset
		wantErr bool
	}{
		{
			name:   "valid with cash",
			assets: []Asset{asset("A", "0.5", AssetKindDiscrete), asset("CASH", "0.5", AssetKindCash)},
		},
		{
			name:   "weights need not sum to one",
			assets: []Asset{asset("A", "0.3", AssetKindDiscrete), asset("B", "0.3", AssetKindDiscrete)},
		},
		{
			name:    "empty",
			assets:  nil,
			wantErr: true,
		},
		{
			name:    "duplicate id",
			assets:  []Asset{asset("A", "0.5", AssetKindDiscrete), asset("A", "0.5", AssetKindDiscrete)},
			wantErr: true,
		},
		{
			name:    "zero weight",
			assets:  []Asset{asset("A", "0", AssetKindDiscrete)},
			wantErr: true,
		},
		{
			name:    "weight above one",
			assets:  []Asset{asset("A", "1.01", AssetKindDiscrete)},
			wantErr: true,
		},
		{
			name:    "two cash assets",
			assets:  []Asset{asset("C1", "0.5", AssetKindCash), asset("C2", "0.5", AssetKindCash)},
			wantErr: true,
		},
		{
			name:    "blank id",
			assets:  []Asset{asset(" ", "1", AssetKindDiscrete)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPortfolio(tt.assets)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.assets), p.Len())
		})
	}
}

func TestPortfolio_Accessors(t *testing.T) {
	p, err := NewPortfolio([]Asset{
		asset("A", "0.4", AssetKindDiscrete),
		asset("CASH", "0.25", AssetKindCash),
		asset("B", "0.35", AssetKindDiscrete),
	})
	require.NoError(t, err)

	cash, ok := p.CashAsset()
	require.True(t, ok)
	assert.Equal(t, "CASH", cash.ID)
	assert.Equal(t, []string{"A", "B"}, p.DiscreteIDs())
	assert.True(t, decimal.NewFromInt(1).Equal(p.TargetSum()))

	_, ok = p.Asset("missing")
	assert.False(t, ok)

	// mutating the returned slice must not leak into the portfolio
	assets := p.Assets()
	assets[0].ID = "changed"
	got, ok := p.Asset("A")
	require.True(t, ok)
	assert.Equal(t, "A", got.ID)
}

func TestHoldings_Validate(t *testing.T) {
	p, err := NewPortfolio([]Asset{asset("A", "0.5", AssetKindDiscrete), asset("CASH", "0.5", AssetKindCash)})
	require.NoError(t, err)

	tests := []struct {
		name     string
		holdings Holdings
		wantErr  bool
	}{
		{name: "empty", holdings: Holdings{}},
		{name: "integral discrete and fractional cash", holdings: Holdings{"A": decimal.NewFromInt(3), "CASH": decimal.RequireFromString("120.55")}},
		{name: "fractional discrete", holdings: Holdings{"A": decimal.RequireFromString("1.5")}, wantErr: true},
		{name: "negative", holdings: Holdings{"CASH": decimal.NewFromInt(-1)}, wantErr: true},
		{name: "unknown asset", holdings: Holdings{"Z": decimal.NewFromInt(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holdings.Validate(p)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHoldings)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseAssetKind(t *testing.T) {
	kind, err := ParseAssetKind("")
	require.NoError(t, err)
	assert.Equal(t, AssetKindDiscrete, kind)

	kind, err = ParseAssetKind("Cash")
	require.NoError(t, err)
	assert.Equal(t, AssetKindCash, kind)

	_, err = ParseAssetKind("bond")
	assert.Error(t, err)
}
