// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

type syncJob struct {
	orchestrator Orchestrator
	logger       *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that calls orchestrator.Run on a ticker. The
// job is idle until Start is called.
func NewSyncJob(orchestrator Orchestrator, logger *logger.Logger) SyncJob {
	return &syncJob{orchestrator: orchestrator, logger: logger}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that runs once right away and then every
// interval. The goroutine exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.runOnce(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runOnce(jobCtx)
			}
		}
	}()
}

func (j *syncJob) runOnce(ctx context.Context) {
	result, err := j.orchestrator.Run(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		j.logger.Info().Msg("another sync holds the local store, skipping")
	case err != nil:
		j.logger.Err(err).Str("func", "syncJob.runOnce").Msg("sync run failed")
	default:
		j.logger.Info().
			Str("status", string(result.Status)).
			Int("failures", result.FailureCount).
			Dur("took", result.Finished.Sub(result.Started)).
			Msg("sync run finished")
	}
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
