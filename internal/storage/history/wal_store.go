// Package history keeps an append-only record of every fetched snapshot and
// derived report in a WAL, replayable for backtesting and audits.
package history

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	// DefaultDir keeps history next to the daily data files.
	DefaultDir = "./data/history"

	segmentThreshold = 1000
	maxSegments      = 100

	snapshotKeyPrefix = "snapshot_"
	reportKeyPrefix   = "report_"
)

// Kind distinguishes the two record types stored in the WAL.
type Kind string

const (
	KindSnapshot Kind = "snapshot"
	KindReport   Kind = "report"
)

// Record is one replayed history entry.
type Record struct {
	Index   uint64
	Kind    Kind
	Date    string
	Payload []byte
}

// Store persists snapshot and report documents in a WAL.
type Store struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewStore initializes the WAL-backed history store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "history_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init history WAL")
	}
	return &Store{wal: wal}, nil
}

// SaveSnapshot appends a fetched snapshot document for the given date.
func (s *Store) SaveSnapshot(date string, payload []byte) error {
	return s.append(snapshotKeyPrefix, date, payload)
}

// SaveReport appends a derived report document for the given date.
func (s *Store) SaveReport(date string, payload []byte) error {
	return s.append(reportKeyPrefix, date, payload)
}

func (s *Store) append(prefix, date string, payload []byte) error {
	if s == nil || s.wal == nil {
		return errors.New("history store is not initialized")
	}
	if date == "" {
		return errors.New("history entry date is required")
	}

	key := fmt.Sprintf("%s%s", prefix, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EntriesAfter replays all history records written after the given index.
func (s *Store) EntriesAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(key, snapshotKeyPrefix):
			records = append(records, Record{
				Index:   idx,
				Kind:    KindSnapshot,
				Date:    strings.TrimPrefix(key, snapshotKeyPrefix),
				Payload: payload,
			})
		case strings.HasPrefix(key, reportKeyPrefix):
			records = append(records, Record{
				Index:   idx,
				Kind:    KindReport,
				Date:    strings.TrimPrefix(key, reportKeyPrefix),
				Payload: payload,
			})
		}
	}
	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *Store) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *Store) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
