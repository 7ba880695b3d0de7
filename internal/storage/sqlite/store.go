// Package sqlite implements almanac persistence over SQLite.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/almanac/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/almanac/internal/storage"
	"github.com/louisbranch/almanac/internal/storage/sqlite/migrations"
)

// Store implements the storage interfaces over a single SQLite file, so
// cascade deletes can share one transaction boundary.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// encodeStrings serializes a string slice into a JSON column value.
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(encoded), nil
}

// decodeStrings restores a string slice from a JSON column value.
func decodeStrings(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// encodeTimes serializes timestamps into a JSON column of millisecond values.
func encodeTimes(values []time.Time) (string, error) {
	millis := make([]int64, 0, len(values))
	for _, value := range values {
		millis = append(millis, toMillis(value))
	}
	encoded, err := json.Marshal(millis)
	if err != nil {
		return "", fmt.Errorf("encode time list: %w", err)
	}
	return string(encoded), nil
}

// decodeTimes restores timestamps from a JSON column of millisecond values.
func decodeTimes(raw string) ([]time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return []time.Time{}, nil
	}
	var millis []int64
	if err := json.Unmarshal([]byte(raw), &millis); err != nil {
		return nil, fmt.Errorf("decode time list: %w", err)
	}
	values := make([]time.Time, 0, len(millis))
	for _, m := range millis {
		values = append(values, fromMillis(m))
	}
	return values, nil
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.CalendarStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)
