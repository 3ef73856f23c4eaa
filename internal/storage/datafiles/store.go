// Package datafiles persists daily snapshots and derived reports as JSON
// files under the data directory, one pair of files per day.
package datafiles

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

const (
	snapshotPrefix = "prices_"
	reportPrefix   = "max_purchase_prices_"
	dirPermissions = 0o755
)

// Store reads and writes the per-day JSON documents.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore ensures the data directory exists and returns a store over it.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "ensure data directory %s", dir)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SaveSnapshot writes the day's snapshot file and returns its path. The raw
// document is stored as received so unknown feed fields survive round trips.
func (s *Store) SaveSnapshot(snap *entity.PriceSnapshot) (string, error) {
	payload := snap.Raw
	if len(payload) == 0 {
		var err error
		payload, err = json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "marshal snapshot")
		}
	}

	path := filepath.Join(s.dir, snapshotPrefix+snap.Date+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", errors.Wrapf(err, "write snapshot file %s", path)
	}
	s.logger.Info("snapshot saved", zap.String("path", path))
	return path, nil
}

// LoadLatestSnapshot loads today's snapshot file, falling back to the most
// recent one present. Snapshot filenames embed ISO dates, so lexical order
// is chronological order.
func (s *Store) LoadLatestSnapshot() (*entity.PriceSnapshot, error) {
	today := filepath.Join(s.dir, snapshotPrefix+time.Now().Format("2006-01-02")+".json")
	if _, err := os.Stat(today); err == nil {
		return s.loadSnapshot(today)
	}

	files, err := filepath.Glob(filepath.Join(s.dir, snapshotPrefix+"*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "list snapshot files")
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no snapshot files in %s", s.dir)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return s.loadSnapshot(files[0])
}

func (s *Store) loadSnapshot(path string) (*entity.PriceSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot file %s", path)
	}
	snap, err := entity.ParseSnapshot(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse snapshot file %s", path)
	}
	if snap.Date == "" {
		// recover the date from the filename for legacy files
		base := strings.TrimSuffix(filepath.Base(path), ".json")
		snap.Date = strings.TrimPrefix(base, snapshotPrefix)
	}
	s.logger.Info("snapshot loaded", zap.String("path", path), zap.String("date", snap.Date))
	return snap, nil
}

// SaveReport writes the day's derived report file and returns its path.
func (s *Store) SaveReport(report *entity.PurchaseReport) (string, error) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal report")
	}

	path := filepath.Join(s.dir, reportPrefix+report.Date+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", errors.Wrapf(err, "write report file %s", path)
	}
	s.logger.Info("report saved", zap.String("path", path))
	return path, nil
}
