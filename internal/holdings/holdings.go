// Package holdings reads and writes the investor's current positions.
package holdings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the content of a holdings file: quantities per asset id and, optionally, the last
// contribution entered by the user.
type File struct {
	Holdings     domain.Holdings
	Contribution decimal.Decimal
}

type fileTmp struct {
	Holdings     map[string]string `yaml:"holdings"`
	Contribution string            `yaml:"contribution,omitempty"`
}

type csvRow struct {
	AssetID  string `csv:"asset_id"`
	Quantity string `csv:"quantity"`
}

// Load reads a holdings file. Files ending in .csv are read as asset_id,quantity rows, anything
// else as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read holdings")
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return parseCSV(data)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*File, error) {
	var tmp fileTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return nil, errors.Wrap(err, "parse holdings yaml")
	}

	f := &File{Holdings: make(domain.Holdings, len(tmp.Holdings))}
	for id, raw := range tmp.Holdings {
		qty, err := parseQuantity(id, raw)
		if err != nil {
			return nil, err
		}
		f.Holdings[id] = qty
	}
	if tmp.Contribution != "" {
		c, err := decimal.NewFromString(tmp.Contribution)
		if err != nil {
			return nil, errors.Wrapf(err, "incorrect 'contribution' in holdings file: %q", tmp.Contribution)
		}
		f.Contribution = c
	}
	return f, nil
}

func parseCSV(data []byte) (*File, error) {
	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, errors.Wrap(err, "parse holdings csv")
	}

	f := &File{Holdings: make(domain.Holdings, len(rows))}
	for _, r := range rows {
		id := strings.TrimSpace(r.AssetID)
		if id == "" {
			continue
		}
		if _, dup := f.Holdings[id]; dup {
			return nil, errors.Wrapf(domain.ErrInvalidHoldings, "asset %s listed twice", id)
		}
		qty, err := parseQuantity(id, r.Quantity)
		if err != nil {
			return nil, err
		}
		f.Holdings[id] = qty
	}
	return f, nil
}

func parseQuantity(id, raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errors.Wrapf(domain.ErrInvalidHoldings, "asset %s: malformed quantity %q", id, raw)
	}
	return qty, nil
}

// Save writes f as YAML. Keys come out sorted by asset id.
func Save(path string, f File) error {
	tmp := fileTmp{Holdings: make(map[string]string, len(f.Holdings))}
	for id, qty := range f.Holdings {
		tmp.Holdings[id] = qty.String()
	}
	if f.Contribution.IsPositive() {
		tmp.Contribution = f.Contribution.String()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tmp); err != nil {
		return errors.Wrap(err, "encode holdings")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encode holdings")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "save holdings")
	}
	return nil
}
