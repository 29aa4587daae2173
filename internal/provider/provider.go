// Package provider fetches draw results from an external source. The HTTP
// client talks to a results API; Mock generates plausible draws locally and
// Fallback chains several providers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// ErrNoResult is returned when a provider has no draw to report.
var ErrNoResult = errors.New("no draw result available")

// Provider is a source of draw results.
type Provider interface {
	Name() string
	FetchLatest(ctx context.Context) (models.DrawRecord, error)
	FetchHistory(ctx context.Context, start, end time.Time) ([]models.DrawRecord, error)
}

// Fallback tries each provider in order and returns the first success.
type Fallback struct {
	providers []Provider
}

// NewFallback creates a chain over providers.
func NewFallback(providers ...Provider) *Fallback {
	return &Fallback{providers: providers}
}

// Name lists the chained providers.
func (f *Fallback) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

// FetchLatest returns the latest draw from the first provider that has one.
func (f *Fallback) FetchLatest(ctx context.Context) (models.DrawRecord, error) {
	var errs []error
	for _, p := range f.providers {
		d, err := p.FetchLatest(ctx)
		if err == nil {
			return d, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return models.DrawRecord{}, fmt.Errorf("all providers failed: %w", errors.Join(append(errs, ErrNoResult)...))
}

// FetchHistory returns the history from the first provider that succeeds.
func (f *Fallback) FetchHistory(ctx context.Context, start, end time.Time) ([]models.DrawRecord, error) {
	var errs []error
	for _, p := range f.providers {
		draws, err := p.FetchHistory(ctx, start, end)
		if err == nil {
			return draws, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all providers failed: %w", errors.Join(append(errs, ErrNoResult)...))
}
