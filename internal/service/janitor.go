package service

import (
	"context"
	"fmt"
	"time"

	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

// JanitorService keeps runs session-scoped: everything is purged at start-up
// and runs older than the retention TTL are swept on every tick.
type JanitorService struct {
	runRepo   repository.RunRepo
	eventRepo repository.EventRepo
	ttl       time.Duration
	log       *logger.Logger
}

func NewJanitorService(runRepo repository.RunRepo, eventRepo repository.EventRepo, ttl time.Duration, log *logger.Logger) *JanitorService {
	return &JanitorService{runRepo: runRepo, eventRepo: eventRepo, ttl: ttl, log: log}
}

// Purge removes every stored run.
func (s *JanitorService) Purge(ctx context.Context) (int64, error) {
	n, err := s.runRepo.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	if n > 0 {
		s.record(ctx, n, "purged runs of a previous session")
	}
	return n, nil
}

// Sweep removes runs created more than ttl before now. A non-positive ttl
// disables sweeping.
func (s *JanitorService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.runRepo.DeleteOlderThan(ctx, now.Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep runs: %w", err)
	}
	if n > 0 {
		s.record(ctx, n, "removed runs past retention")
	}
	return n, nil
}

func (s *JanitorService) record(ctx context.Context, n int64, msg string) {
	if err := s.eventRepo.Append(ctx, models.RunEvent{
		Type:        models.EventPurge,
		Description: msg,
		Metadata:    map[string]any{"runs": n, "ttl": s.ttl.String()},
	}); err != nil {
		s.log.Errorw("event_append_failed", "type", models.EventPurge, "err", err)
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *JanitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.Sweep(ctx, now.UTC())
			if err != nil {
				s.log.Errorw("retention_sweep_failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Infow("retention_sweep", "removed", n)
			}
		}
	}
}
