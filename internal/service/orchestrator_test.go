// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/mock"
	"github.com/MKhiriev/go-link-keeper/models"
)

type stubSyncer struct {
	collection models.Collection
	stats      models.RunStats
	summary    CollectionSummary
	order      *[]models.Collection
}

func (s *stubSyncer) Collection() models.Collection { return s.collection }

func (s *stubSyncer) Reconcile(context.Context) models.RunStats {
	if s.order != nil {
		*s.order = append(*s.order, s.collection)
	}
	s.stats.Collection = s.collection
	return s.stats
}

func (s *stubSyncer) Summary(context.Context) (CollectionSummary, error) {
	s.summary.Collection = s.collection
	return s.summary, nil
}

func threeSyncers(order *[]models.Collection) []*stubSyncer {
	out := make([]*stubSyncer, 0, len(models.Collections))
	for _, c := range models.Collections {
		out = append(out, &stubSyncer{collection: c, order: order})
	}
	return out
}

func asSyncers(stubs []*stubSyncer) []CollectionSyncer {
	out := make([]CollectionSyncer, len(stubs))
	for i, s := range stubs {
		out[i] = s
	}
	return out
}

func newTestOrchestrator(t *testing.T, stubs []*stubSyncer, lockPath string) (*syncOrchestrator, *mock.MockSyncLogRepository, *memMeta) {
	t.Helper()
	ctrl := gomock.NewController(t)
	syncLog := mock.NewMockSyncLogRepository(ctrl)
	meta := newMemMeta()
	o := NewOrchestrator(asSyncers(stubs), syncLog, meta, lockPath, 7, logger.Nop()).(*syncOrchestrator)
	o.now = func() time.Time { return testTime }
	return o, syncLog, meta
}

func TestOrchestrator_RunInOrderAndRecords(t *testing.T) {
	var order []models.Collection
	stubs := threeSyncers(&order)
	stubs[1].stats = models.RunStats{Uploaded: 2}
	o, syncLog, meta := newTestOrchestrator(t, stubs, "")

	syncLog.EXPECT().Prune(gomock.Any(), testTime.Add(-7*24*time.Hour)).Return(int64(3), nil)
	syncLog.EXPECT().AppendRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run models.SyncRunResult) (int64, error) {
			assert.Len(t, run.Collections, 3)
			assert.Equal(t, 2, run.Collections[models.CollectionLinks].Uploaded)
			return 11, nil
		})

	result, err := o.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.Collections, order)
	assert.Equal(t, int64(11), result.ID)
	assert.Equal(t, models.SyncStatusSynced, result.Status)
	assert.Equal(t, models.LastSync{Finished: testTime, Status: models.SyncStatusSynced}, meta.last)
}

func TestOrchestrator_Status(t *testing.T) {
	tests := []struct {
		name  string
		setup func(stubs []*stubSyncer)
		want  models.SyncStatus
	}{
		{
			name:  "clean",
			setup: func([]*stubSyncer) {},
			want:  models.SyncStatusSynced,
		},
		{
			name:  "pending",
			setup: func(s []*stubSyncer) { s[2].summary.Pending = 1 },
			want:  models.SyncStatusUnsynced,
		},
		{
			name: "conflict beats pending",
			setup: func(s []*stubSyncer) {
				s[0].summary.Pending = 4
				s[2].summary.Conflicted = 1
			},
			want: models.SyncStatusConflict,
		},
		{
			name: "failure beats conflict",
			setup: func(s []*stubSyncer) {
				s[0].summary.Conflicted = 1
				s[1].stats.Failures = 1
			},
			want: models.SyncStatusError,
		},
		{
			name:  "abort is an error",
			setup: func(s []*stubSyncer) { s[1].stats.Aborted = true },
			want:  models.SyncStatusError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := threeSyncers(nil)
			tt.setup(stubs)
			o, syncLog, _ := newTestOrchestrator(t, stubs, "")
			syncLog.EXPECT().Prune(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			syncLog.EXPECT().AppendRun(gomock.Any(), gomock.Any()).Return(int64(1), nil)

			result, err := o.Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestOrchestrator_PruneFailureDoesNotStopRun(t *testing.T) {
	o, syncLog, _ := newTestOrchestrator(t, threeSyncers(nil), "")
	syncLog.EXPECT().Prune(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("disk full"))
	syncLog.EXPECT().AppendRun(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	_, err := o.Run(context.Background())

	assert.NoError(t, err)
}

func TestOrchestrator_AppendFailureStillSetsLastSync(t *testing.T) {
	o, syncLog, meta := newTestOrchestrator(t, threeSyncers(nil), "")
	syncLog.EXPECT().Prune(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	syncLog.EXPECT().AppendRun(gomock.Any(), gomock.Any()).Return(int64(0), assert.AnError)

	_, err := o.Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, models.SyncStatusSynced, meta.last.Status)
}

func TestOrchestrator_BusyLockSkipsRun(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "links.db"+LockFileSuffix)
	holder := flock.New(lockPath)
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	var order []models.Collection
	o, _, _ := newTestOrchestrator(t, threeSyncers(&order), lockPath)

	_, err = o.Run(context.Background())

	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.Empty(t, order)

	require.NoError(t, holder.Unlock())
}

func TestOrchestrator_LockReleasedAfterRun(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "links.db"+LockFileSuffix)
	o, syncLog, _ := newTestOrchestrator(t, threeSyncers(nil), lockPath)
	syncLog.EXPECT().Prune(gomock.Any(), gomock.Any()).Return(int64(0), nil).Times(2)
	syncLog.EXPECT().AppendRun(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(2)

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	_, err = o.Run(context.Background())
	require.NoError(t, err)
}

func TestOrchestrator_Summaries(t *testing.T) {
	stubs := threeSyncers(nil)
	stubs[1].summary = CollectionSummary{Total: 3, Conflicted: 1, ConflictedIDs: []string{"x"}}
	o, _, _ := newTestOrchestrator(t, stubs, "")

	summaries, err := o.Summaries(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, models.CollectionLinks, summaries[1].Collection)
	assert.Equal(t, []string{"x"}, summaries[1].ConflictedIDs)
}
