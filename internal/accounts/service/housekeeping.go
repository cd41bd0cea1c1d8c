package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

// HousekeepingService periodically deletes expired verification codes.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Clock:    time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down, waiting for an in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep performs one cleanup pass and reports how many codes were removed.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	n, err := s.Store.VerificationCodes().DeleteStaleCodes(ctx, s.Clock().UTC())
	if err != nil {
		s.Logger.Error("failed to delete stale verification codes", "error", err)
		return 0
	}
	s.Logger.Info("housekeeping sweep completed", "codes_deleted", n)
	return n
}
