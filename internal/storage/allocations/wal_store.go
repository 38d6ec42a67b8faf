// Package allocations journals allocation reports in a write-ahead log.
package allocations

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/aporte/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultJournalDir = "./wal/allocations"
	segmentLimit      = 1000
	maxSegments       = 100
	reportKeyPrefix   = "allocation_report_"
)

// WALStore persists allocation reports so they survive restarts and can be streamed.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed report store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "report_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init allocation journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the report and returns its journal index.
func (s *WALStore) Save(report domain.Report) (uint64, error) {
	if s == nil || s.wal == nil {
		return 0, errors.New("allocation journal is not initialized")
	}
	if report.ID == uuid.Nil {
		return 0, errors.New("allocation report id is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return 0, errors.Wrap(err, "marshal allocation report")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(next, reportKeyPrefix+report.ID.String(), payload); err != nil {
		return 0, errors.Wrap(err, "write allocation report")
	}
	return next, nil
}

// RecordsAfter returns all reports written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]domain.ReportRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("allocation journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ReportRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, ok := s.wal.Get(idx)
		if !ok || !strings.HasPrefix(key, reportKeyPrefix) {
			continue
		}
		var report domain.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, errors.Wrapf(err, "decode allocation report at index %d", idx)
		}
		records = append(records, domain.ReportRecord{Index: idx, Report: report})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("allocation journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
