// Package domain defines core data structures used by the allocation engine.
package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AssetKind tells whether an asset is bought in whole units or as a currency amount.
type AssetKind int

const (
	// AssetKindDiscrete is bought in whole units only.
	AssetKindDiscrete AssetKind = iota
	// AssetKindCash is a continuous cash-like asset with a unit price of 1.
	AssetKindCash
)

// String returns the string representation.
func (k AssetKind) String() string {
	switch k {
	case AssetKindDiscrete:
		return "discrete"
	case AssetKindCash:
		return "cash"
	default:
		return fmt.Sprintf("AssetKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k AssetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AssetKind) UnmarshalText(text []byte) error {
	kind, err := ParseAssetKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseAssetKind converts "discrete" or "cash" into an AssetKind. Empty means discrete.
func ParseAssetKind(s string) (AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discrete":
		return AssetKindDiscrete, nil
	case "cash":
		return AssetKindCash, nil
	default:
		return 0, fmt.Errorf("unknown asset kind %q", s)
	}
}

// CashPrice is the fixed unit price of the cash-equivalent asset.
var CashPrice = decimal.NewFromInt(1)

// Asset is a statically configured portfolio member.
type Asset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetWeight decimal.Decimal `json:"target_weight"`
	Kind         AssetKind       `json:"kind"`
}

// IsCash reports whether the asset is the cash equivalent.
func (a Asset) IsCash() bool {
	return a.Kind == AssetKindCash
}

func (a Asset) validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("asset id is required")
	}
	if a.TargetWeight.LessThanOrEqual(decimal.Zero) || a.TargetWeight.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("asset %s: target weight must be in (0, 1], got %s", a.ID, a.TargetWeight.String())
	}
	if a.Kind != AssetKindDiscrete && a.Kind != AssetKindCash {
		return fmt.Errorf("asset %s: unknown kind %d", a.ID, a.Kind)
	}
	return nil
}
