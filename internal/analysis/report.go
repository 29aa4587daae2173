package analysis

import (
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// Confidence maps a record count to the fixed informal confidence score.
func Confidence(records int) float64 {
	switch {
	case records < 10:
		return 0.2
	case records < 50:
		return 0.5
	case records < 100:
		return 0.7
	default:
		return 0.85
	}
}

// Builder assembles analysis reports. Now stamps GeneratedAt.
type Builder struct {
	Now func() time.Time
}

// NewBuilder creates a builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Build runs every analyzer over draws and returns the combined report.
// The caller must not mutate draws while Build runs.
func (b *Builder) Build(draws []models.DrawRecord) models.AnalysisReport {
	digits := DigitFrequency(draws)
	patterns := DetectPatterns(draws)

	now := time.Now
	if b != nil && b.Now != nil {
		now = b.Now
	}

	return models.AnalysisReport{
		TotalRecords:      len(draws),
		DigitFrequency:    digits,
		Top2Digits:        NGramFrequency(draws, 2),
		Top3Digits:        NGramFrequency(draws, 3),
		Patterns:          patterns,
		TimeBasedAnalysis: TimeBased(draws),
		HotColdNumbers:    HotCold(digits),
		AdvancedStats: models.AdvancedStats{
			DigitTransitions: DigitTransitions(draws),
			GapAnalysis:      GapAnalysis(draws),
			SumSummary:       SumSummary(patterns),
		},
		Confidence:  Confidence(len(draws)),
		GeneratedAt: now().UTC(),
	}
}

// Build is a shorthand for NewBuilder().Build(draws).
func Build(draws []models.DrawRecord) models.AnalysisReport {
	return NewBuilder().Build(draws)
}
