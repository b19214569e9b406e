package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// PredictorWorker periodically regenerates predictions for every user with
// settings, replacing a cron job.
type PredictorWorker struct {
	predictorService *PredictorService
	settingsRepo     domain.UserSettingsRepository
	logger           zerolog.Logger
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
	mu               sync.Mutex
	running          bool
}

// DefaultPredictorInterval is how often predictions are regenerated when the
// interval is not configured.
const DefaultPredictorInterval = 24 * time.Hour

// NewPredictorWorker creates a new predictor worker
func NewPredictorWorker(
	predictorService *PredictorService,
	settingsRepo domain.UserSettingsRepository,
	logger zerolog.Logger,
	interval time.Duration,
) *PredictorWorker {
	if interval <= 0 {
		interval = DefaultPredictorInterval
	}
	return &PredictorWorker{
		predictorService: predictorService,
		settingsRepo:     settingsRepo,
		logger:           logger.With().Str("component", "predictor_worker").Logger(),
		interval:         interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background prediction runs
func (w *PredictorWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting predictor worker")
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *PredictorWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping predictor worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Predictor worker stopped")
}

// run is the worker's main loop
func (w *PredictorWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.runAllUsers(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.runAllUsers(ctx)
		}
	}
}

func (w *PredictorWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// runAllUsers regenerates predictions for every user with settings. One
// user's failure does not stop the batch.
func (w *PredictorWorker) runAllUsers(ctx context.Context) {
	settings, err := w.settingsRepo.ListAll(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list user settings")
		return
	}

	now := time.Now()
	for _, userSettings := range settings {
		created, err := w.predictorService.RunFromSettings(ctx, userSettings.UserID, now)
		if err != nil {
			w.logger.Error().Err(err).
				Str("user_id", userSettings.UserID.String()).
				Msg("Prediction run failed")
			continue
		}
		w.logger.Info().
			Str("user_id", userSettings.UserID.String()).
			Int("created", len(created)).
			Time("predict_end", userSettings.PredictEnd).
			Msg("Regenerated predictions")
	}
}
