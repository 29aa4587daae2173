// Package storage persists draw history and saved predictions in a SQLite
// key-value table. Values are JSON documents stored under fixed keys so the
// layout matches what the browser cache of earlier versions held.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
)

// Storage keys.
const (
	KeyDraws            = "lotteryData"
	KeyLastUpdate       = "lastUpdate"
	KeySavedPredictions = "savedPredictions"
)

// MaxSavedPredictions is how many saved prediction sets are kept.
const MaxSavedPredictions = 10

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Storage is a thread-safe key-value store backed by SQLite.
type Storage struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// CacheInfo summarizes the stored draw history.
type CacheInfo struct {
	Count      int        `json:"count"`
	LastUpdate *time.Time `json:"lastUpdate"`
	Size       int        `json:"size"` // bytes of the serialized history
}

// storedDraw is the persisted record shape: multi-value fields are kept as
// space-separated strings.
type storedDraw struct {
	Date     string `json:"date"`
	First    string `json:"first_prize"`
	Prefix   string `json:"3digit_prefix"`
	Suffix   string `json:"3digit_suffix"`
	TwoDigit string `json:"2digit"`
}

// New opens (creating if needed) the database at dbPath. An empty path uses
// a file under the OS temp directory.
func New(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "lottoracle", "data.db")
	}
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Storage) put(e execer, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = e.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// get decodes the value under key into dst. It reports false when the key is absent.
func (s *Storage) get(key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveDraws replaces the stored history and stamps the last-update time.
func (s *Storage) SaveDraws(draws []models.DrawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveDraws(draws)
}

func (s *Storage) saveDraws(draws []models.DrawRecord) error {
	stored := make([]storedDraw, len(draws))
	for i := range draws {
		d := &draws[i]
		stored[i] = storedDraw{
			Date:     d.Date,
			First:    d.PrimaryValue,
			Prefix:   d.PrefixField(),
			Suffix:   d.SuffixField(),
			TwoDigit: d.TwoDigitValue,
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.put(tx, KeyDraws, stored); err != nil {
		return err
	}
	if err := s.put(tx, KeyLastUpdate, s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit draws: %w", err)
	}
	return nil
}

// MergeDraws merges incoming draws into the stored history (see records.Merge)
// and persists the result. It returns the merged history and how many
// draws were new.
func (s *Storage) MergeDraws(incoming []models.DrawRecord, replace bool) ([]models.DrawRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadDraws()
	if err != nil {
		return nil, 0, err
	}
	merged, added := records.Merge(existing, incoming, replace)
	if err := s.saveDraws(merged); err != nil {
		return nil, 0, err
	}
	return merged, added, nil
}

// LoadDraws returns the stored history, or an empty slice when none is stored.
func (s *Storage) LoadDraws() ([]models.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadDraws()
}

func (s *Storage) loadDraws() ([]models.DrawRecord, error) {
	var stored []storedDraw
	if _, err := s.get(KeyDraws, &stored); err != nil {
		return nil, err
	}
	draws := make([]models.DrawRecord, len(stored))
	for i, sd := range stored {
		draws[i] = models.DrawRecord{
			Date:               sd.Date,
			PrimaryValue:       sd.First,
			ThreeDigitPrefixes: records.SplitTokens(sd.Prefix),
			ThreeDigitSuffixes: records.SplitTokens(sd.Suffix),
			TwoDigitValue:      sd.TwoDigit,
		}
	}
	return draws, nil
}

// LastUpdate returns when the history was last written.
func (s *Storage) LastUpdate() (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate()
}

func (s *Storage) lastUpdate() (time.Time, bool, error) {
	var raw string
	ok, err := s.get(KeyLastUpdate, &raw)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid %s value %q: %w", KeyLastUpdate, raw, err)
	}
	return t, true, nil
}

// SavePrediction stores a prediction set ahead of older ones, keeping the
// newest MaxSavedPredictions.
func (s *Storage) SavePrediction(p models.SavedPrediction) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid saved prediction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.savedPredictions()
	if err != nil {
		return err
	}
	saved = append([]models.SavedPrediction{p}, saved...)
	if len(saved) > MaxSavedPredictions {
		saved = saved[:MaxSavedPredictions]
	}
	return s.put(s.db, KeySavedPredictions, saved)
}

// SavedPredictions returns the saved prediction sets, newest first.
func (s *Storage) SavedPredictions() ([]models.SavedPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedPredictions()
}

func (s *Storage) savedPredictions() ([]models.SavedPrediction, error) {
	saved := []models.SavedPrediction{}
	if _, err := s.get(KeySavedPredictions, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Clear removes the stored history and its timestamp. Saved predictions are kept.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, KeyDraws, KeyLastUpdate); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Info summarizes the stored history.
func (s *Storage) Info() (CacheInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info CacheInfo
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, KeyDraws).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return info, fmt.Errorf("failed to read %s: %w", KeyDraws, err)
	default:
		var stored []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return info, fmt.Errorf("failed to decode %s: %w", KeyDraws, err)
		}
		info.Count = len(stored)
		info.Size = len(raw)
	}

	t, ok, err := s.lastUpdate()
	if err != nil {
		return info, err
	}
	if ok {
		info.LastUpdate = &t
	}
	return info, nil
}
