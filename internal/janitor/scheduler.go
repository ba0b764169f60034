// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
)

// ErrSyncThrottled is returned by TriggerSync when the per-user
// cooldown has not elapsed since the last on-demand sync.
var ErrSyncThrottled = errors.New("sync already triggered recently")

// Scheduler runs periodic sync passes over every user and serves
// rate-limited on-demand triggers. Users sync independently; one user's
// slow upstream does not delay the others.
type Scheduler struct {
	orchestrator *Orchestrator
	store        Store
	interval     time.Duration
	cooldown     time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler. interval spaces the periodic passes
// and cooldown bounds on-demand triggers per user.
func NewScheduler(orchestrator *Orchestrator, store Store, interval, cooldown time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		store:        store,
		interval:     interval,
		cooldown:     cooldown,
		limiters:     make(map[string]*rate.Limiter),
		stopChan:     make(chan struct{}),
	}
}

// Start launches the periodic sync loop. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()
	logging.Info().Dur("interval", s.interval).Msg("Sync scheduler started")
}

// Stop shuts the scheduler down and waits for in-flight syncs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	logging.Info().Msg("Sync scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncAllUsers()
		case <-s.stopChan:
			return
		}
	}
}

// syncAllUsers queues one independent sync per user with a configured
// media server and waits for the batch. Users who never set Jellyfin up
// are not dispatched at all, so they produce no failure metrics or
// notifications. A failing user never blocks or fails the others.
func (s *Scheduler) syncAllUsers() {
	ctx := context.Background()
	userIDs, err := s.store.ListUserIDsWithService(ctx, models.ServiceJellyfin)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to enumerate users for scheduled sync")
		return
	}

	var batch sync.WaitGroup
	for _, userID := range userIDs {
		batch.Add(1)
		go func(userID string) {
			defer batch.Done()
			result := s.orchestrator.RunSync(ctx, userID)
			if result.Status == models.SyncStatusFailed {
				logging.Warn().Str("user_id", userID).Str("error", result.Error).Msg("Scheduled sync failed")
			}
		}(userID)
	}
	batch.Wait()
}

// TriggerSync runs an on-demand sync for one user, subject to the
// cooldown. Returns ErrSyncThrottled when called again too soon.
func (s *Scheduler) TriggerSync(ctx context.Context, userID string) (models.SyncResult, error) {
	if !s.limiter(userID).Allow() {
		return models.SyncResult{}, ErrSyncThrottled
	}
	return s.orchestrator.RunSync(ctx, userID), nil
}

func (s *Scheduler) limiter(userID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(s.cooldown), 1)
		s.limiters[userID] = l
	}
	return l
}
