package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/rng"
)

// Mock generates random draws on the 1st and 16th of each month. It stands
// in for a real results API during development and demos.
type Mock struct {
	src rng.Source
	now func() time.Time
}

// NewMock creates a mock provider drawing numbers from src.
func NewMock(src rng.Source) *Mock {
	return &Mock{src: src, now: time.Now}
}

// Name identifies the mock in logs.
func (m *Mock) Name() string {
	return "mock"
}

// FetchLatest returns a random draw dated today.
func (m *Mock) FetchLatest(ctx context.Context) (models.DrawRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.DrawRecord{}, err
	}
	return m.draw(m.now()), nil
}

// FetchHistory returns one random draw per draw day between start and end
// inclusive, most recent first.
func (m *Mock) FetchHistory(ctx context.Context, start, end time.Time) ([]models.DrawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = truncateDay(start)
	end = truncateDay(end)
	var draws []models.DrawRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Day() == 1 || d.Day() == 16 {
			draws = append(draws, m.draw(d))
		}
	}

	for i, j := 0, len(draws)-1; i < j; i, j = i+1, j-1 {
		draws[i], draws[j] = draws[j], draws[i]
	}
	if draws == nil {
		draws = []models.DrawRecord{}
	}
	return draws, nil
}

func (m *Mock) draw(day time.Time) models.DrawRecord {
	return models.DrawRecord{
		Date:               day.Format("2006-01-02"),
		PrimaryValue:       m.number(6),
		ThreeDigitPrefixes: []string{m.number(3), m.number(3)},
		ThreeDigitSuffixes: []string{m.number(3), m.number(3)},
		TwoDigitValue:      m.number(2),
	}
}

// number returns a random number with exactly digits digits and no leading zero.
func (m *Mock) number(digits int) string {
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}
	return fmt.Sprintf("%d", low+m.src.Intn(9*low))
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
