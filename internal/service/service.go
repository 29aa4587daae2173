// Package service wires storage, analysis, prediction and the draw provider
// into the operations offered by the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/lottoracle/internal/analysis"
	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/predict"
	"github.com/rewired-gh/lottoracle/internal/provider"
	"github.com/rewired-gh/lottoracle/internal/records"
	"github.com/rewired-gh/lottoracle/internal/rng"
	"github.com/rewired-gh/lottoracle/internal/storage"
)

// ErrNoData is returned by operations that need a stored draw history.
var ErrNoData = errors.New("no draw data available")

// Supported import and export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultHistoryMonths is how far back FetchHistory reaches by default.
const DefaultHistoryMonths = 6

// Service is safe for concurrent use when its rng.Source is.
type Service struct {
	store         *storage.Storage
	provider      provider.Provider
	builder       *analysis.Builder
	src           rng.Source
	now           func() time.Time
	historyMonths int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.builder.Now = now
	}
}

// WithSource replaces the randomness source.
func WithSource(src rng.Source) Option {
	return func(s *Service) { s.src = src }
}

// WithHistoryMonths sets the FetchHistory window.
func WithHistoryMonths(months int) Option {
	return func(s *Service) {
		if months > 0 {
			s.historyMonths = months
		}
	}
}

// New creates a service. p may be nil when no fetching is needed.
func New(store *storage.Storage, p provider.Provider, opts ...Option) *Service {
	s := &Service{
		store:         store,
		provider:      p,
		builder:       analysis.NewBuilder(),
		src:           rng.NewTimeSeeded(),
		now:           time.Now,
		historyMonths: DefaultHistoryMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportResult describes one import.
type ImportResult struct {
	Parsed int `json:"parsed"`
	Added  int `json:"added"`
	Total  int `json:"total"`
}

// Import parses a history file. Without merge the parsed records replace
// the stored history in file order; with merge they are merged by date and
// overwrite stored draws of the same date.
func (s *Service) Import(r io.Reader, format string, merge bool) (ImportResult, error) {
	var (
		draws []models.DrawRecord
		err   error
	)
	switch format {
	case FormatCSV, "":
		draws, err = records.ParseReader(r)
	case FormatXLSX:
		draws, err = records.ParseXLSX(r)
	default:
		return ImportResult{}, fmt.Errorf("unsupported import format %q", format)
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse %s: %w", format, err)
	}

	result := ImportResult{Parsed: len(draws)}
	if merge {
		merged, added, err := s.store.MergeDraws(draws, true)
		if err != nil {
			return ImportResult{}, err
		}
		result.Added, result.Total = added, len(merged)
	} else {
		if err := s.store.SaveDraws(draws); err != nil {
			return ImportResult{}, err
		}
		result.Added, result.Total = len(draws), len(draws)
	}

	logger.Info("Imported %d draws (%d new, %d stored)", result.Parsed, result.Added, result.Total)
	return result, nil
}

// Draws returns the stored history, narrowed to a YYYY-MM month when month
// is set and to draws containing query in any field.
func (s *Service) Draws(month, query string) ([]models.DrawRecord, error) {
	draws, err := s.store.LoadDraws()
	if err != nil {
		return nil, err
	}
	if month != "" {
		return records.Filter(draws, month, query), nil
	}
	return records.Search(draws, query), nil
}

// Export writes the stored history in format and returns a download filename.
func (s *Service) Export(w io.Writer, format string) (string, error) {
	draws, err := s.history()
	if err != nil {
		return "", err
	}

	switch format {
	case FormatCSV:
		err = records.Export(w, draws)
	case FormatXLSX:
		err = records.ExportXLSX(w, draws)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to export %s: %w", format, err)
	}
	return records.ExportFilename(s.now(), format), nil
}

// Report analyzes the stored history.
func (s *Service) Report() (models.AnalysisReport, error) {
	draws, err := s.history()
	if err != nil {
		return models.AnalysisReport{}, err
	}
	return s.builder.Build(draws), nil
}

// Predict runs every heuristic generator over a fresh report.
func (s *Service) Predict() (models.PredictionSet, error) {
	report, err := s.Report()
	if err != nil {
		return models.PredictionSet{}, err
	}
	return predict.NewPredictor(report, s.src).All(), nil
}

// SavePrediction persists a prediction set under a new ID.
func (s *Service) SavePrediction(set models.PredictionSet) (models.SavedPrediction, error) {
	saved := models.SavedPrediction{
		ID:          uuid.NewString(),
		Date:        s.now().UTC(),
		Predictions: set,
		Confidence:  set.Confidence,
	}
	if err := s.store.SavePrediction(saved); err != nil {
		return models.SavedPrediction{}, err
	}
	return saved, nil
}

// SavedPredictions returns saved prediction sets, newest first.
func (s *Service) SavedPredictions() ([]models.SavedPrediction, error) {
	return s.store.SavedPredictions()
}

// Lucky blends numerology with the stored history. An empty history only
// contributes nothing from the statistics side.
func (s *Service) Lucky(name string, birth time.Time) (models.LuckySet, error) {
	draws, err := s.store.LoadDraws()
	if err != nil {
		return models.LuckySet{}, err
	}
	return predict.Lucky(name, birth, s.builder.Build(draws), s.now(), s.src), nil
}

// Numerology computes life-path and name numbers.
func (s *Service) Numerology(name string, birth time.Time) models.NumerologyResult {
	return predict.Numerology(name, birth)
}

// Dream interprets dream text with the dream book.
func (s *Service) Dream(text string) models.DreamInterpretation {
	return predict.InterpretDream(text)
}

// Check compares ticket numbers against the draw held on date.
func (s *Service) Check(numbers []string, date string) (models.WinningCheck, error) {
	draws, err := s.history()
	if err != nil {
		return models.WinningCheck{}, err
	}
	return records.CheckWinning(draws, numbers, date)
}

// FetchResult describes one provider fetch.
type FetchResult struct {
	Provider string             `json:"provider"`
	Fetched  int                `json:"fetched"`
	Added    int                `json:"added"`
	Total    int                `json:"total"`
	Latest   *models.DrawRecord `json:"latest,omitempty"`
}

// FetchLatest fetches the most recent draw and stores it unless a draw with
// the same date is already stored.
func (s *Service) FetchLatest(ctx context.Context) (FetchResult, error) {
	if s.provider == nil {
		return FetchResult{}, errors.New("no provider configured")
	}

	draw, err := s.provider.FetchLatest(ctx)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to fetch latest draw: %w", err)
	}

	merged, added, err := s.store.MergeDraws([]models.DrawRecord{draw}, false)
	if err != nil {
		return FetchResult{}, err
	}

	if added == 0 {
		logger.Info("Latest draw %s is already stored", draw.Date)
	} else {
		logger.Info("Stored latest draw %s from %s", draw.Date, s.provider.Name())
	}
	return FetchResult{
		Provider: s.provider.Name(),
		Fetched:  1,
		Added:    added,
		Total:    len(merged),
		Latest:   &draw,
	}, nil
}

// FetchHistory fetches the configured number of past months and merges the
// draws, keeping stored draws on date collisions.
func (s *Service) FetchHistory(ctx context.Context) (FetchResult, error) {
	if s.provider == nil {
		return FetchResult{}, errors.New("no provider configured")
	}

	end := s.now()
	start := end.AddDate(0, -s.historyMonths, 0)
	draws, err := s.provider.FetchHistory(ctx, start, end)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to fetch history: %w", err)
	}

	merged, added, err := s.store.MergeDraws(draws, false)
	if err != nil {
		return FetchResult{}, err
	}

	logger.Info("Fetched %d historical draws from %s (%d new)", len(draws), s.provider.Name(), added)
	return FetchResult{
		Provider: s.provider.Name(),
		Fetched:  len(draws),
		Added:    added,
		Total:    len(merged),
	}, nil
}

// CacheInfo summarizes the stored history.
func (s *Service) CacheInfo() (storage.CacheInfo, error) {
	return s.store.Info()
}

// ClearCache removes the stored history.
func (s *Service) ClearCache() error {
	return s.store.Clear()
}

// WatchResult is the outcome of one watch cycle. Report and Predictions are
// only set when the cycle stored new draws.
type WatchResult struct {
	Fetch       FetchResult
	Report      *models.AnalysisReport
	Predictions *models.PredictionSet
}

// HasNewDraws reports whether the cycle stored anything.
func (r WatchResult) HasNewDraws() bool {
	return r.Fetch.Added > 0
}

// WatchCycle fetches the latest draw and, when it is new, re-analyzes the
// history and generates fresh predictions.
func (s *Service) WatchCycle(ctx context.Context) (WatchResult, error) {
	fetch, err := s.FetchLatest(ctx)
	if err != nil {
		return WatchResult{}, err
	}

	result := WatchResult{Fetch: fetch}
	if !result.HasNewDraws() {
		return result, nil
	}

	report, err := s.Report()
	if err != nil {
		return result, err
	}
	predictions := predict.NewPredictor(report, s.src).All()
	result.Report = &report
	result.Predictions = &predictions
	return result, nil
}

func (s *Service) history() ([]models.DrawRecord, error) {
	draws, err := s.store.LoadDraws()
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, ErrNoData
	}
	return draws, nil
}
