package holdings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/aporte/internal/domain"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "holdings")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(tempDir(t), "holdings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
holdings:
  SPXR11.SA: "12"
  RENDA_FIXA_CDI: "1500.75"
contribution: "1000"
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "12", f.Holdings["SPXR11.SA"].String())
	assert.Equal(t, "1500.75", f.Holdings["RENDA_FIXA_CDI"].String())
	assert.Equal(t, "1000", f.Contribution.String())
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(tempDir(t), "holdings.CSV")
	require.NoError(t, os.WriteFile(path, []byte("asset_id,quantity\nSPXR11.SA,12\nNASD11.SA, 3\n,\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Holdings, 2)
	assert.Equal(t, "3", f.Holdings["NASD11.SA"].String())
	assert.True(t, f.Contribution.IsZero())
}

func TestLoad_Errors(t *testing.T) {
	dir := tempDir(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("holdings:\n  A: ten\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidHoldings)

	dup := filepath.Join(dir, "dup.csv")
	require.NoError(t, os.WriteFile(dup, []byte("asset_id,quantity\nA,1\nA,2\n"), 0o644))
	_, err = Load(dup)
	assert.ErrorIs(t, err, domain.ErrInvalidHoldings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(tempDir(t), "holdings.gen.yaml")
	in := File{
		Holdings: domain.Holdings{
			"B5P211.SA":      decimal.NewFromInt(4),
			"RENDA_FIXA_CDI": decimal.RequireFromString("250.5"),
		},
		Contribution: decimal.NewFromInt(800),
	}
	require.NoError(t, Save(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `B5P211.SA: "4"`)

	out, err := Load(path)
	require.NoError(t, err)
	assert.True(t, out.Holdings["RENDA_FIXA_CDI"].Equal(in.Holdings["RENDA_FIXA_CDI"]))
	assert.True(t, out.Contribution.Equal(in.Contribution))
}
