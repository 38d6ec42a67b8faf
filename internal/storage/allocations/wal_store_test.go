package allocations

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/aporte/internal/domain"
)

func newReport(contribution int64) domain.Report {
	return domain.Report{
		ID:        uuid.New(),
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Result: &domain.AllocationResult{
			Reason:       domain.ReasonNothingToAllocate,
			Contribution: decimal.NewFromInt(contribution),
			Leftover:     decimal.NewFromInt(contribution),
			Spent:        decimal.Zero,
		},
	}
}

func TestWALStore(t *testing.T) {
	dir, err := os.MkdirTemp("", "allocations-wal")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewWALStore(dir)
	require.NoError(t, err)

	first, second := newReport(100), newReport(250)
	idx, err := store.Save(first)
	require.NoError(t, err)
	assert.EqualValues(t, 1, idx)
	idx, err = store.Save(second)
	require.NoError(t, err)
	assert.EqualValues(t, 2, idx)
	assert.EqualValues(t, 2, store.CurrentIndex())

	records, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].Report.ID)
	assert.EqualValues(t, 1, records[0].Index)
	assert.True(t, decimal.NewFromInt(250).Equal(records[1].Report.Result.Contribution))
	assert.Equal(t, domain.ReasonNothingToAllocate, records[1].Report.Result.Reason)

	records, err = store.RecordsAfter(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].Report.ID)

	records, err = store.RecordsAfter(2)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	assert.EqualValues(t, 2, reopened.CurrentIndex())
}

func TestWALStore_RejectsMissingID(t *testing.T) {
	dir, err := os.MkdirTemp("", "allocations-wal")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Save(domain.Report{})
	assert.Error(t, err)
}

func TestWALStore_Nil(t *testing.T) {
	var store *WALStore
	assert.EqualValues(t, 0, store.CurrentIndex())
	_, err := store.RecordsAfter(0)
	assert.Error(t, err)
}
