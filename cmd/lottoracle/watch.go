package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rewired-gh/lottoracle/internal/config"
	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/service"
	"github.com/rewired-gh/lottoracle/internal/telegram"
)

// notifier is the part of the Telegram client the watch loop uses.
type notifier interface {
	SendDigest(d telegram.Digest) error
	SendError(err error) error
	SendRecovery(failures int) error
}

func newNotifier(cfg config.TelegramConfig) (notifier, error) {
	if !cfg.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil, nil
	}
	client, err := telegram.NewClient(cfg.BotToken, cfg.ChatID, cfg.MaxRetries, cfg.RetryDelayBase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	logger.Info("Telegram client initialized successfully")
	return client, nil
}

// watcher tracks failure streaks across watch cycles so that only the first
// failure and the recovery are notified.
type watcher struct {
	notify              notifier
	consecutiveFailures int
}

func (w *watcher) handleCycleResult(result service.WatchResult, err error) {
	if err != nil {
		w.consecutiveFailures++
		logger.Error("Watch cycle failed: %v", err)
		if w.consecutiveFailures == 1 && w.notify != nil {
			if sendErr := w.notify.SendError(err); sendErr != nil {
				logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
			}
		}
		return
	}

	if w.consecutiveFailures > 0 && w.notify != nil {
		if sendErr := w.notify.SendRecovery(w.consecutiveFailures); sendErr != nil {
			logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
		}
	}
	w.consecutiveFailures = 0

	if !result.HasNewDraws() {
		logger.Debug("No new draws (%d stored)", result.Fetch.Total)
		return
	}
	logger.Info("Watch cycle stored %d new draws (%d total)", result.Fetch.Added, result.Fetch.Total)

	if w.notify == nil || result.Report == nil || result.Predictions == nil {
		return
	}
	digest := telegram.Digest{
		Added:       result.Fetch.Added,
		Report:      *result.Report,
		Predictions: *result.Predictions,
	}
	if result.Fetch.Latest != nil {
		digest.Latest = *result.Fetch.Latest
	}
	if sendErr := w.notify.SendDigest(digest); sendErr != nil {
		logger.Warn("Failed to send digest to Telegram: %v", sendErr)
	}
}

// runWatch runs one cycle immediately and then one per interval until ctx is done.
func runWatch(ctx context.Context, svc *service.Service, interval time.Duration, n notifier) error {
	logger.Info("Starting watch loop (interval: %v)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w := &watcher{notify: n}
	w.handleCycleResult(svc.WatchCycle(ctx))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch loop stopped")
			return nil
		case <-ticker.C:
			w.handleCycleResult(svc.WatchCycle(ctx))
		}
	}
}
