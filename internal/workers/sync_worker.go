// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/service"
)

// SyncWorker drives a [service.SyncJob] at a fixed interval.
type SyncWorker struct {
	job      service.SyncJob
	interval time.Duration
}

func NewSyncWorker(job service.SyncJob, interval time.Duration) *SyncWorker {
	return &SyncWorker{job: job, interval: interval}
}

func (w *SyncWorker) Run(ctx context.Context) {
	w.job.Start(ctx, w.interval)
}

func (w *SyncWorker) Stop() {
	w.job.Stop()
}
