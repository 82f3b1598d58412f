// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

// ReconcileOptions tunes a Reconciler.
type ReconcileOptions struct {
	// UploadToEmpty re-uploads every synced record when the remote directory
	// is found empty.
	UploadToEmpty bool
	// ProtectLocal marks a synced record conflicted instead of purging it
	// when its remote copy is gone.
	ProtectLocal bool
	// PoolSize bounds the number of items handled concurrently.
	PoolSize int
}

// Reconciler brings one collection of local records in line with its remote
// directory. One Reconciler serves every content type.
type Reconciler[C models.Content[C]] struct {
	collection models.Collection
	local      store.ItemRepository[C]
	cloud      CloudStore[C]
	meta       store.SyncMetaRepository
	sink       NotificationSink
	opts       ReconcileOptions

	logger *logger.Logger
	now    func() time.Time
}

func NewReconciler[C models.Content[C]](
	local store.ItemRepository[C],
	cloud CloudStore[C],
	meta store.SyncMetaRepository,
	sink NotificationSink,
	opts ReconcileOptions,
	logger *logger.Logger,
) *Reconciler[C] {
	if opts.PoolSize <= 0 {
		opts.PoolSize = config.DefaultPoolSize
	}
	collection := cloud.Collection()
	return &Reconciler[C]{
		collection: collection,
		local:      local,
		cloud:      cloud,
		meta:       meta,
		sink:       sink,
		opts:       opts,
		logger:     logger.WithCollection(collection.String()),
		now:        time.Now,
	}
}

func (r *Reconciler[C]) Collection() models.Collection {
	return r.collection
}

type outcomeKind int

const (
	outcomeNone outcomeKind = iota
	outcomeUploaded
	outcomeUpdated
	outcomeSyncedEqual
	outcomeCreated
	outcomeDuplicated
	outcomeDeleted
	outcomeConflicted
	outcomeFailed
)

// outcome is what happened to a single item during a pass. related names the
// link a note is attached to.
type outcome struct {
	id      string
	kind    outcomeKind
	err     error
	related string
}

// Reconcile runs one pass over the collection.
//
// When the remote directory tag equals the one stored after the last clean
// pass, the listing is not fetched and only locally pending records are
// pushed, each assumed to be unchanged remotely.
func (r *Reconciler[C]) Reconcile(ctx context.Context) models.RunStats {
	started := r.now()
	stats := models.RunStats{Collection: r.collection}

	dirTag, err := r.cloud.DirectoryTag(ctx)
	if err != nil {
		return r.abort(stats, "get remote directory tag", err)
	}
	lastTag, err := r.meta.DirectoryTag(ctx, r.collection)
	if err != nil {
		return r.abort(stats, "get stored directory tag", err)
	}

	if dirTag == lastTag {
		return r.reconcilePending(ctx, started, stats)
	}
	return r.reconcileFull(ctx, started, dirTag, stats)
}

func (r *Reconciler[C]) reconcilePending(ctx context.Context, started time.Time, stats models.RunStats) models.RunStats {
	stats.ShortCircuited = true

	records, err := r.local.List(ctx)
	if err != nil {
		return r.abort(stats, "list local records", err)
	}

	var tasks []func(context.Context) outcome
	for _, rec := range records {
		if !rec.State.IsPending() {
			continue
		}
		// the stored tag stands in for the remote one
		present := rec.State.HasETag()
		tasks = append(tasks, func(ctx context.Context) outcome {
			return r.reconcileLocal(ctx, rec, rec.State.ETag, present, false)
		})
	}
	if len(tasks) == 0 {
		return stats
	}

	r.logger.Debug().Int("pending", len(tasks)).Msg("directory unchanged, pushing pending records")
	stats, notifications := r.fold(stats, started, r.execute(ctx, tasks))
	r.notify(ctx, notifications)
	return stats
}

func (r *Reconciler[C]) reconcileFull(ctx context.Context, started time.Time, dirTag string, stats models.RunStats) models.RunStats {
	listing, err := r.cloud.List(ctx)
	if err != nil {
		return r.abort(stats, "list remote directory", err)
	}
	records, err := r.local.List(ctx)
	if err != nil {
		return r.abort(stats, "list local records", err)
	}
	ids, err := r.local.ListIDs(ctx)
	if err != nil {
		return r.abort(stats, "list local ids", err)
	}
	localIDs := mapset.NewThreadUnsafeSet[string](ids...)

	var tasks []func(context.Context) outcome
	uploadAll := r.opts.UploadToEmpty && len(listing.Entries) == 0
	for _, rec := range records {
		if rec.State.IsConflicted() {
			continue
		}
		remoteTag, present := listing.Entries[rec.ID]
		tasks = append(tasks, func(ctx context.Context) outcome {
			return r.reconcileLocal(ctx, rec, remoteTag, present, uploadAll)
		})
	}
	for id := range listing.Entries {
		if localIDs.Contains(id) {
			continue
		}
		tasks = append(tasks, func(ctx context.Context) outcome {
			return r.reconcileRemoteOnly(ctx, id)
		})
	}

	stats, notifications := r.fold(stats, started, r.execute(ctx, tasks))

	if stats.Failures == 0 {
		if err := r.meta.SetDirectoryTag(ctx, r.collection, dirTag); err != nil {
			r.logger.Warn().Err(err).Str("func", "Reconciler.reconcileFull").Msg("directory tag was not stored")
		}
	}

	r.notify(ctx, notifications)
	return stats
}

// execute runs tasks on the bounded pool. Every task handles a distinct id.
func (r *Reconciler[C]) execute(ctx context.Context, tasks []func(context.Context) outcome) []outcome {
	outcomes := make([]outcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(r.opts.PoolSize)
	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// reconcileLocal handles one local record. With uploadAll set, a synced record
// is pushed again as new; its stored state only changes once the upload
// succeeded.
func (r *Reconciler[C]) reconcileLocal(ctx context.Context, rec models.Record[C], remoteTag string, present, uploadAll bool) outcome {
	var o outcome
	if uploadAll && rec.State.Status == models.StatusSynced {
		o = r.upload(ctx, rec, "")
	} else {
		o = r.reconcileRecord(ctx, rec, remoteTag, present)
	}
	o.related = relatedLink(rec.Content)
	return o
}

func (r *Reconciler[C]) reconcileRecord(ctx context.Context, rec models.Record[C], remoteTag string, present bool) outcome {
	switch rec.State.Status {
	case models.StatusNew, models.StatusUnsynced:
		return r.reconcileUnsynced(ctx, rec, remoteTag, present)
	case models.StatusSynced:
		return r.reconcileSynced(ctx, rec, remoteTag, present)
	case models.StatusDeleted:
		return r.reconcileDeleted(ctx, rec, remoteTag, present)
	}
	return outcome{id: rec.ID}
}

func (r *Reconciler[C]) reconcileUnsynced(ctx context.Context, rec models.Record[C], remoteTag string, present bool) outcome {
	eTag := rec.State.ETag

	if !present {
		if eTag == "" {
			return r.upload(ctx, rec, "")
		}
		// edited locally, removed remotely
		return r.conflict(ctx, rec.ID, models.ConflictedState(eTag, false))
	}
	if eTag != "" && remoteTag == eTag {
		return r.upload(ctx, rec, eTag)
	}

	remote, tag, err := r.cloud.Download(ctx, rec.ID)
	if errors.Is(err, adapter.ErrNotFound) {
		return r.reconcileUnsynced(ctx, rec, "", false)
	}
	if err != nil {
		return r.fail(rec.ID, "download", err)
	}

	if !rec.Content.Equal(remote.Content) {
		return r.conflict(ctx, rec.ID, models.ConflictedState(eTag, false))
	}
	if err := r.local.UpdateState(ctx, rec.ID, models.SyncedState(orTag(tag, remoteTag))); err != nil {
		return r.fail(rec.ID, "update state", err)
	}
	return outcome{id: rec.ID, kind: outcomeSyncedEqual}
}

func (r *Reconciler[C]) reconcileSynced(ctx context.Context, rec models.Record[C], remoteTag string, present bool) outcome {
	eTag := rec.State.ETag

	if !present {
		if r.opts.ProtectLocal {
			return r.conflict(ctx, rec.ID, models.ConflictedState(eTag, false))
		}
		if err := r.local.Delete(ctx, rec.ID); err != nil {
			return r.fail(rec.ID, "purge local", err)
		}
		return outcome{id: rec.ID, kind: outcomeDeleted}
	}
	if eTag != "" && remoteTag == eTag {
		return outcome{id: rec.ID}
	}

	remote, tag, err := r.cloud.Download(ctx, rec.ID)
	if errors.Is(err, adapter.ErrNotFound) {
		return r.reconcileSynced(ctx, rec, "", false)
	}
	if err != nil {
		return r.fail(rec.ID, "download", err)
	}

	tag = orTag(tag, remoteTag)
	err = r.local.UpdateContent(ctx, rec.ID, remote.Content, remote.Updated)
	if errors.Is(err, store.ErrDuplicateNaturalKey) {
		return r.saveDuplicated(ctx, rec.ID, remote, tag)
	}
	if err != nil {
		return r.fail(rec.ID, "update content", err)
	}
	if err := r.local.UpdateState(ctx, rec.ID, models.SyncedState(tag)); err != nil {
		return r.fail(rec.ID, "update state", err)
	}
	return outcome{id: rec.ID, kind: outcomeUpdated}
}

// saveDuplicated stores a downloaded update whose natural key another local
// record already holds. The record is frozen as a duplicate first, which
// lifts the uniqueness constraint, and then takes the remote content.
func (r *Reconciler[C]) saveDuplicated(ctx context.Context, id string, remote models.Record[C], tag string) outcome {
	if err := r.local.UpdateState(ctx, id, models.DuplicatedState(tag)); err != nil {
		return r.fail(id, "mark duplicated", err)
	}
	if err := r.local.UpdateContent(ctx, id, remote.Content, remote.Updated); err != nil {
		return r.fail(id, "update duplicate content", err)
	}
	r.logger.Info().Str("id", id).Str("key", remote.Content.NaturalKey()).Msg("remote update collides with a local record, stored as duplicate")
	return outcome{id: id, kind: outcomeConflicted}
}

func (r *Reconciler[C]) reconcileDeleted(ctx context.Context, rec models.Record[C], remoteTag string, present bool) outcome {
	eTag := rec.State.ETag

	if eTag == "" {
		// never reached the remote
		if err := r.local.Delete(ctx, rec.ID); err != nil {
			return r.fail(rec.ID, "purge local", err)
		}
		return outcome{id: rec.ID, kind: outcomeDeleted}
	}
	if !present {
		// Deleted on both sides, or the listing lost the entry. Both end up
		// with a human.
		return r.conflict(ctx, rec.ID, models.ConflictedState(eTag, true))
	}
	if remoteTag == eTag {
		return r.deleteBoth(ctx, rec.ID)
	}

	remote, _, err := r.cloud.Download(ctx, rec.ID)
	if errors.Is(err, adapter.ErrNotFound) {
		return r.reconcileDeleted(ctx, rec, "", false)
	}
	if err != nil {
		return r.fail(rec.ID, "download", err)
	}
	if !rec.Content.Equal(remote.Content) {
		return r.conflict(ctx, rec.ID, models.ConflictedState(eTag, true))
	}
	return r.deleteBoth(ctx, rec.ID)
}

func (r *Reconciler[C]) reconcileRemoteOnly(ctx context.Context, id string) outcome {
	remote, tag, err := r.cloud.Download(ctx, id)
	if errors.Is(err, adapter.ErrNotFound) {
		return outcome{id: id}
	}
	if err != nil {
		return r.fail(id, "download", err)
	}

	related := relatedLink(remote.Content)
	remote.State = models.SyncedState(tag)
	err = r.local.Insert(ctx, remote)
	if err == nil {
		return outcome{id: id, kind: outcomeCreated, related: related}
	}
	if !errors.Is(err, store.ErrDuplicateNaturalKey) {
		return r.fail(id, "insert", err)
	}

	remote.State = models.DuplicatedState(tag)
	if err := r.local.Insert(ctx, remote); err != nil {
		return r.fail(id, "insert duplicate", err)
	}
	return outcome{id: id, kind: outcomeDuplicated, related: related}
}

func (r *Reconciler[C]) upload(ctx context.Context, rec models.Record[C], ifMatch string) outcome {
	tag, err := r.cloud.Upload(ctx, rec, ifMatch)
	if errors.Is(err, adapter.ErrContentConflict) {
		return r.conflict(ctx, rec.ID, models.ConflictedState(rec.State.ETag, false))
	}
	if err != nil {
		return r.fail(rec.ID, "upload", err)
	}
	if err := r.local.UpdateState(ctx, rec.ID, models.SyncedState(tag)); err != nil {
		return r.fail(rec.ID, "update state", err)
	}
	return outcome{id: rec.ID, kind: outcomeUploaded}
}

func (r *Reconciler[C]) deleteBoth(ctx context.Context, id string) outcome {
	if err := r.cloud.Delete(ctx, id); err != nil && !errors.Is(err, adapter.ErrNotFound) {
		return r.fail(id, "delete remote", err)
	}
	if err := r.local.Delete(ctx, id); err != nil {
		return r.fail(id, "purge local", err)
	}
	return outcome{id: id, kind: outcomeDeleted}
}

func (r *Reconciler[C]) conflict(ctx context.Context, id string, state models.SyncState) outcome {
	if err := r.local.UpdateState(ctx, id, state); err != nil {
		return r.fail(id, "mark conflicted", err)
	}
	return outcome{id: id, kind: outcomeConflicted}
}

func (r *Reconciler[C]) fail(id, step string, err error) outcome {
	r.logger.Err(err).Str("func", "Reconciler.reconcileRecord").Str("id", id).Str("step", step).Msg("item was not reconciled")
	return outcome{id: id, kind: outcomeFailed, err: fmt.Errorf("%s: %w", step, err)}
}

func (r *Reconciler[C]) abort(stats models.RunStats, step string, err error) models.RunStats {
	r.logger.Err(err).Str("func", "Reconciler.Reconcile").Str("step", step).Msg("pass aborted")
	stats.Aborted = true
	stats.Err = fmt.Errorf("%s: %w", step, err)
	return stats
}

// fold turns outcomes into counters, journal entries and notifications.
func (r *Reconciler[C]) fold(stats models.RunStats, started time.Time, outcomes []outcome) (models.RunStats, []models.Notification) {
	var notifications []models.Notification
	for _, o := range outcomes {
		var (
			result models.ItemResult
			kind   models.NotificationKind
		)
		switch o.kind {
		case outcomeNone:
			continue
		case outcomeUploaded:
			stats.Uploaded++
			result, kind = models.ResultUploaded, models.NotificationUpdated
		case outcomeUpdated:
			stats.Downloaded++
			stats.Updated++
			result, kind = models.ResultDownloaded, models.NotificationUpdated
		case outcomeSyncedEqual:
			stats.Downloaded++
			result, kind = models.ResultSynced, models.NotificationUpdated
		case outcomeCreated:
			stats.Downloaded++
			stats.Created++
			result, kind = models.ResultDownloaded, models.NotificationCreated
		case outcomeDuplicated:
			stats.Downloaded++
			stats.Conflicted++
			result, kind = models.ResultConflict, models.NotificationCreated
		case outcomeDeleted:
			stats.Deleted++
			result, kind = models.ResultDeleted, models.NotificationDeleted
		case outcomeConflicted:
			stats.Conflicted++
			result, kind = models.ResultConflict, models.NotificationUpdated
		case outcomeFailed:
			stats.Failures++
			result = models.ResultError
		}

		stats.Entries = append(stats.Entries, models.SyncLogEntry{
			Started:    started,
			Collection: r.collection,
			ItemID:     o.id,
			Result:     result,
		})
		if o.related != "" && o.kind != outcomeFailed {
			stats.Entries = append(stats.Entries, models.SyncLogEntry{
				Started:    started,
				Collection: models.CollectionLinks,
				ItemID:     o.related,
				Result:     models.ResultRelated,
			})
		}
		if kind != "" {
			notifications = append(notifications, models.Notification{
				Collection: r.collection,
				ID:         o.id,
				Kind:       kind,
			})
		}
	}
	return stats, notifications
}

func (r *Reconciler[C]) notify(ctx context.Context, notifications []models.Notification) {
	if r.sink == nil {
		return
	}
	for _, n := range notifications {
		r.sink.Notify(ctx, n)
	}
}

// Summary counts pending and conflicted records.
func (r *Reconciler[C]) Summary(ctx context.Context) (CollectionSummary, error) {
	records, err := r.local.List(ctx)
	if err != nil {
		r.logger.Err(err).Str("func", "Reconciler.Summary").Msg("error listing local records")
		return CollectionSummary{}, fmt.Errorf("list local records: %w", err)
	}

	summary := CollectionSummary{Collection: r.collection, Total: len(records)}
	for _, rec := range records {
		switch {
		case rec.State.IsConflicted():
			summary.Conflicted++
			summary.ConflictedIDs = append(summary.ConflictedIDs, rec.ID)
		case rec.State.IsPending():
			summary.Pending++
		}
	}
	return summary, nil
}

func relatedLink[C any](content C) string {
	if r, ok := any(content).(models.LinkRelated); ok {
		return r.RelatedLink()
	}
	return ""
}

func orTag(tag, fallback string) string {
	if tag != "" {
		return tag
	}
	return fallback
}
