// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

type linkFixture struct {
	local *memItems[models.Link]
	cloud *memCloud[models.Link]
	meta  *memMeta
	sink  *recordingSink
	r     *Reconciler[models.Link]
}

func newLinkFixture(t *testing.T, opts ReconcileOptions, recs ...models.Record[models.Link]) *linkFixture {
	t.Helper()
	f := &linkFixture{
		local: newMemItems(recs...),
		cloud: newMemCloud[models.Link](),
		meta:  newMemMeta(),
		sink:  &recordingSink{},
	}
	f.r = NewReconciler[models.Link](f.local, f.cloud, f.meta, f.sink, opts, logger.Nop())
	f.r.now = func() time.Time { return testTime }
	return f
}

// forceFull makes the stored directory tag differ from the remote one.
func (f *linkFixture) forceFull() {
	f.meta.tags[models.CollectionLinks] = "stale"
}

func (f *linkFixture) state(t *testing.T, id string) models.SyncState {
	t.Helper()
	rec, ok := f.local.get(id)
	require.True(t, ok, "record %s is missing", id)
	return rec.State
}

func TestReconcile_UploadsNeverSyncedItemOnce(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("a", "https://a.example", "A", models.UnsyncedState("")))
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	require.False(t, stats.Aborted)
	assert.Equal(t, 1, stats.Uploaded)
	assert.Equal(t, 1, f.cloud.uploads["a"])
	state := f.state(t, "a")
	assert.Equal(t, models.StatusSynced, state.Status)
	assert.NotEmpty(t, state.ETag)
	assert.Equal(t, f.cloud.tag("a"), state.ETag)
}

func TestReconcile_NewItemOnFirstRunWithEmptyRemote(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("a", "https://a.example", "A", models.NewState()))

	stats := f.r.Reconcile(context.Background())

	assert.True(t, stats.ShortCircuited)
	assert.Equal(t, 1, stats.Uploaded)
	assert.Equal(t, models.SyncedState(f.cloud.tag("a")), f.state(t, "a"))
}

func TestReconcile_SyncedItemWithChangedRemoteIsOverwritten(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("s", "https://s.example", "old", models.SyncedState("T1")))
	remote := link("s", "https://s.example", "new", models.SyncState{})
	f.cloud.put(remote, "T2")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Downloaded)
	assert.Equal(t, 1, stats.Updated)
	assert.Zero(t, stats.Conflicted)
	rec, _ := f.local.get("s")
	assert.Equal(t, "new", rec.Content.Name)
	assert.Equal(t, models.SyncedState("T2"), rec.State)
}

func TestReconcile_UnsyncedEqualContentBecomesSynced(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("u", "https://u.example", "same", models.UnsyncedState("T1")))
	f.cloud.put(link("u", "https://u.example", "same", models.SyncState{}), "T2")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Downloaded)
	assert.Zero(t, stats.Conflicted)
	assert.Equal(t, models.SyncedState("T2"), f.state(t, "u"))
}

func TestReconcile_UnsyncedDifferentContentConflicts(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("X", "https://x.example", "A", models.UnsyncedState("T1")))
	f.cloud.put(link("X", "https://x.example", "B", models.SyncState{}), "T2")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Conflicted)
	rec, _ := f.local.get("X")
	assert.Equal(t, models.StatusConflicted, rec.State.Status)
	assert.False(t, rec.State.Deleted)
	assert.Equal(t, "A", rec.Content.Name)
	assert.Zero(t, f.cloud.uploads["X"])
}

func TestReconcile_DeletedUnchangedRemoteIsDeletedBothSides(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("Y", "https://y.example", "Y", models.DeletedState("T1")))
	f.cloud.put(link("Y", "https://y.example", "Y", models.SyncState{}), "T1")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Deleted)
	assert.Zero(t, stats.Conflicted)
	assert.Equal(t, 1, f.cloud.deletes["Y"])
	_, ok := f.local.get("Y")
	assert.False(t, ok)
	assert.Zero(t, f.cloud.downloads["Y"])
}

func TestReconcile_RemoteOnlyItemIsInserted(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{})
	f.cloud.put(link("Z", "https://z.example", "Z", models.SyncState{}), "T9")

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Created)
	rec, ok := f.local.get("Z")
	require.True(t, ok)
	assert.Equal(t, models.SyncedState("T9"), rec.State)
	assert.Equal(t, "https://z.example", rec.Content.URL)
	assert.Equal(t, []models.Notification{{Collection: models.CollectionLinks, ID: "Z", Kind: models.NotificationCreated}}, f.sink.all())
}

func TestReconcile_DeletedWithAbsentRemoteConflictsAsKnownQuirk(t *testing.T) {
	// The remote copy may be gone for good or missing from a bad listing; the
	// pass cannot tell and leaves the record to a human.
	f := newLinkFixture(t, ReconcileOptions{}, link("q", "https://q.example", "Q", models.DeletedState("T1")))
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Conflicted)
	assert.Equal(t, models.ConflictedState("T1", true), f.state(t, "q"))
}

func TestReconcile_DeletedNeverUploadedIsPurged(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("d", "https://d.example", "D", models.DeletedState("")))
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Deleted)
	_, ok := f.local.get("d")
	assert.False(t, ok)
	assert.Zero(t, f.cloud.deletes["d"])
}

func TestReconcile_DeletedWithChangedRemote(t *testing.T) {
	tests := []struct {
		name        string
		remoteName  string
		wantDeleted bool
	}{
		{name: "equal content deletes", remoteName: "D", wantDeleted: true},
		{name: "different content conflicts", remoteName: "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLinkFixture(t, ReconcileOptions{}, link("d", "https://d.example", "D", models.DeletedState("T1")))
			f.cloud.put(link("d", "https://d.example", tt.remoteName, models.SyncState{}), "T2")
			f.forceFull()

			f.r.Reconcile(context.Background())

			rec, ok := f.local.get("d")
			if tt.wantDeleted {
				assert.False(t, ok)
				assert.Empty(t, f.cloud.tag("d"))
				return
			}
			require.True(t, ok)
			assert.Equal(t, models.ConflictedState("T1", true), rec.State)
		})
	}
}

func TestReconcile_SyncedWithAbsentRemote(t *testing.T) {
	t.Run("purged", func(t *testing.T) {
		f := newLinkFixture(t, ReconcileOptions{}, link("s", "https://s.example", "S", models.SyncedState("T1")))
		f.forceFull()

		stats := f.r.Reconcile(context.Background())

		assert.Equal(t, 1, stats.Deleted)
		_, ok := f.local.get("s")
		assert.False(t, ok)
	})
	t.Run("protected", func(t *testing.T) {
		f := newLinkFixture(t, ReconcileOptions{ProtectLocal: true}, link("s", "https://s.example", "S", models.SyncedState("T1")))
		f.forceFull()

		stats := f.r.Reconcile(context.Background())

		assert.Equal(t, 1, stats.Conflicted)
		assert.Equal(t, models.ConflictedState("T1", false), f.state(t, "s"))
	})
}

func TestReconcile_UnsyncedWithVanishedRemoteConflicts(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("u", "https://u.example", "U", models.UnsyncedState("T1")))
	f.forceFull()

	f.r.Reconcile(context.Background())

	assert.Equal(t, models.ConflictedState("T1", false), f.state(t, "u"))
}

func TestReconcile_UnsyncedWithUnchangedRemoteUploads(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("u", "https://u.example", "edited", models.UnsyncedState("T1")))
	f.cloud.put(link("u", "https://u.example", "orig", models.SyncState{}), "T1")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Uploaded)
	assert.Zero(t, f.cloud.downloads["u"])
	assert.Equal(t, models.SyncedState(f.cloud.tag("u")), f.state(t, "u"))
}

func TestReconcile_DuplicatedDownloadIsStoredConflicted(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("main", "https://dup.example", "Main", models.SyncedState("T1")))
	f.cloud.put(link("main", "https://dup.example", "Main", models.SyncState{}), "T1")
	f.cloud.put(link("dup", "https://dup.example", "Dup", models.SyncState{}), "T5")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Conflicted)
	assert.Equal(t, 1, stats.Downloaded)
	assert.Equal(t, models.DuplicatedState("T5"), f.state(t, "dup"))
	assert.Equal(t, models.SyncedState("T1"), f.state(t, "main"))
}

func TestReconcile_RemoteUpdateTakingLocalKeyIsStoredDuplicated(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("a", "https://one.example", "A", models.SyncedState("T1")),
		link("b", "https://two.example", "B", models.SyncedState("TB")),
	)
	f.cloud.put(link("a", "https://two.example", "A", models.SyncState{}), "T2")
	f.cloud.put(link("b", "https://two.example", "B", models.SyncState{}), "TB")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Zero(t, stats.Failures)
	assert.Equal(t, 1, stats.Conflicted)
	rec, ok := f.local.get("a")
	require.True(t, ok)
	assert.Equal(t, models.DuplicatedState("T2"), rec.State)
	assert.Equal(t, "https://two.example", rec.Content.URL)
	assert.Equal(t, models.SyncedState("TB"), f.state(t, "b"))
	assert.NotEqual(t, "stale", f.meta.tags[models.CollectionLinks])
}

func TestReconcile_UploadRejectedByRemoteConflicts(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("u", "https://u.example", "U", models.UnsyncedState("T1")))
	f.cloud.failOn["Upload:u"] = adapter.ErrContentConflict
	f.cloud.put(link("u", "https://u.example", "orig", models.SyncState{}), "T1")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Conflicted)
	assert.Equal(t, models.ConflictedState("T1", false), f.state(t, "u"))
}

func TestReconcile_ItemFailureLeavesStateAndSkipsTagPersistence(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("bad", "https://bad.example", "B", models.SyncedState("T1")),
		link("new", "https://new.example", "N", models.UnsyncedState("")),
	)
	f.cloud.put(link("bad", "https://bad.example", "B2", models.SyncState{}), "T2")
	f.cloud.failOn["Download:bad"] = adapter.ErrTransport
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.False(t, stats.Aborted)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 1, stats.Uploaded)
	assert.Equal(t, models.SyncedState("T1"), f.state(t, "bad"))
	assert.Equal(t, "stale", f.meta.tags[models.CollectionLinks])

	var results []models.ItemResult
	for _, e := range stats.Entries {
		results = append(results, e.Result)
	}
	assert.ElementsMatch(t, []models.ItemResult{models.ResultError, models.ResultUploaded}, results)
}

func TestReconcile_IntegrityFailureCountsAsFailure(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{})
	f.cloud.put(link("z", "https://z.example", "Z", models.SyncState{}), "T1")
	f.cloud.failOn["Download:z"] = adapter.ErrIntegrity

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Failures)
	_, ok := f.local.get("z")
	assert.False(t, ok)
}

func TestReconcile_ListingFailureAborts(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("a", "https://a.example", "A", models.UnsyncedState("")))
	f.cloud.failOn["List"] = adapter.ErrTransport

	stats := f.r.Reconcile(context.Background())

	assert.True(t, stats.Aborted)
	assert.True(t, errors.Is(stats.Err, adapter.ErrTransport))
	assert.Equal(t, models.UnsyncedState(""), f.state(t, "a"))
	assert.Zero(t, f.cloud.uploads["a"])
}

func TestReconcile_LocalListFailureAborts(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{})
	f.cloud.put(link("z", "https://z.example", "Z", models.SyncState{}), "T1")
	f.local.failOn["List"] = errors.New("disk I/O error")

	stats := f.r.Reconcile(context.Background())

	assert.True(t, stats.Aborted)
	assert.Zero(t, f.cloud.downloads["z"])
}

func TestReconcile_UnchangedDirectoryShortCircuits(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("s", "https://s.example", "S", models.SyncedState("T1")))
	f.cloud.put(link("s", "https://s.example", "S", models.SyncState{}), "T1")
	tag, err := f.cloud.DirectoryTag(context.Background())
	require.NoError(t, err)
	f.meta.tags[models.CollectionLinks] = tag

	stats := f.r.Reconcile(context.Background())

	assert.True(t, stats.ShortCircuited)
	assert.False(t, stats.Changed())
	assert.Zero(t, f.cloud.downloads["s"])
	assert.Empty(t, f.sink.all())
}

func TestReconcile_UnchangedDirectoryStillPushesPendingEdits(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("u", "https://u.example", "edited", models.UnsyncedState("T1")),
		link("d", "https://d.example", "D", models.DeletedState("T3")),
		link("c", "https://c.example", "C", models.ConflictedState("T4", false)),
	)
	f.cloud.put(link("u", "https://u.example", "orig", models.SyncState{}), "T1")
	f.cloud.put(link("d", "https://d.example", "D", models.SyncState{}), "T3")
	f.cloud.put(link("c", "https://c.example", "remote", models.SyncState{}), "T5")
	tag, err := f.cloud.DirectoryTag(context.Background())
	require.NoError(t, err)
	f.meta.tags[models.CollectionLinks] = tag

	stats := f.r.Reconcile(context.Background())

	assert.True(t, stats.ShortCircuited)
	assert.Equal(t, 1, stats.Uploaded)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, models.SyncedState(f.cloud.tag("u")), f.state(t, "u"))
	_, ok := f.local.get("d")
	assert.False(t, ok)
	assert.Equal(t, models.ConflictedState("T4", false), f.state(t, "c"))
	// the tag stored before the pass is kept, the next pass runs in full
	assert.Equal(t, tag, f.meta.tags[models.CollectionLinks])
}

func TestReconcile_ConflictedItemsAreFrozen(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{}, link("c", "https://c.example", "C", models.ConflictedState("T1", false)))
	f.cloud.put(link("c", "https://c.example", "remote", models.SyncState{}), "T2")
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.False(t, stats.Changed())
	assert.Zero(t, f.cloud.downloads["c"])
	assert.Equal(t, models.ConflictedState("T1", false), f.state(t, "c"))
}

func TestReconcile_UploadToEmptyReuploadsSyncedRecords(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{UploadToEmpty: true}, link("s", "https://s.example", "S", models.SyncedState("T1")))
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Uploaded)
	assert.Zero(t, stats.Deleted)
	assert.Equal(t, models.SyncedState(f.cloud.tag("s")), f.state(t, "s"))
}

func TestReconcile_UploadToEmptyFailureKeepsStoredState(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{UploadToEmpty: true}, link("s", "https://s.example", "S", models.SyncedState("T1")))
	f.cloud.failOn["Upload:s"] = adapter.ErrTransport
	f.forceFull()

	stats := f.r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, models.SyncedState("T1"), f.state(t, "s"))
}

func TestReconcile_NoteJournalsRelatedLink(t *testing.T) {
	local := newMemItems(models.Record[models.Note]{
		ID:      "n",
		Created: testTime,
		Updated: testTime,
		Content: models.Note{Text: "read later", LinkID: "l1"},
		State:   models.UnsyncedState(""),
	})
	meta := newMemMeta()
	meta.tags[models.CollectionNotes] = "stale"
	r := NewReconciler[models.Note](local, newMemCloud[models.Note](), meta, nil, ReconcileOptions{}, logger.Nop())

	stats := r.Reconcile(context.Background())

	require.Equal(t, 1, stats.Uploaded)
	assert.Contains(t, stats.Entries, models.SyncLogEntry{
		Started:    stats.Entries[0].Started,
		Collection: models.CollectionLinks,
		ItemID:     "l1",
		Result:     models.ResultRelated,
	})
}

func TestReconcile_IsIdempotent(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("new", "https://new.example", "N", models.UnsyncedState("")),
		link("syn", "https://syn.example", "S", models.SyncedState("T1")),
		link("chg", "https://chg.example", "old", models.SyncedState("T1")),
		link("con", "https://con.example", "A", models.UnsyncedState("T1")),
		link("del", "https://del.example", "D", models.DeletedState("T1")),
	)
	f.cloud.put(link("syn", "https://syn.example", "S", models.SyncState{}), "T1")
	f.cloud.put(link("chg", "https://chg.example", "new", models.SyncState{}), "T2")
	f.cloud.put(link("con", "https://con.example", "B", models.SyncState{}), "T2")
	f.cloud.put(link("del", "https://del.example", "D", models.SyncState{}), "T1")
	f.cloud.put(link("rem", "https://rem.example", "R", models.SyncState{}), "T9")
	f.forceFull()

	first := f.r.Reconcile(context.Background())
	require.Zero(t, first.Failures)
	after, err := f.local.List(context.Background())
	require.NoError(t, err)

	second := f.r.Reconcile(context.Background())
	require.Zero(t, second.Failures)
	again, err := f.local.List(context.Background())
	require.NoError(t, err)

	require.Len(t, again, len(after))
	for i := range after {
		assert.Equal(t, after[i].ID, again[i].ID)
		assert.Equal(t, after[i].State, again[i].State, "state of %s changed", after[i].ID)
	}
	assert.False(t, second.Changed())
}

func TestReconcile_NotificationsPerTransition(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("up", "https://up.example", "U", models.UnsyncedState("")),
		link("gone", "https://gone.example", "G", models.SyncedState("T1")),
	)
	f.cloud.put(link("in", "https://in.example", "I", models.SyncState{}), "T2")

	f.r.Reconcile(context.Background())

	assert.ElementsMatch(t, []models.Notification{
		{Collection: models.CollectionLinks, ID: "up", Kind: models.NotificationUpdated},
		{Collection: models.CollectionLinks, ID: "gone", Kind: models.NotificationDeleted},
		{Collection: models.CollectionLinks, ID: "in", Kind: models.NotificationCreated},
	}, f.sink.all())
}

func TestReconcile_NotesNeverDuplicate(t *testing.T) {
	local := newMemItems(models.Record[models.Note]{ID: "n1", Content: models.Note{Text: "same"}, State: models.SyncedState("T1")})
	cloud := newMemCloud[models.Note]()
	cloud.put(models.Record[models.Note]{ID: "n1", Content: models.Note{Text: "same"}}, "T1")
	cloud.put(models.Record[models.Note]{ID: "n2", Content: models.Note{Text: "same"}}, "T2")
	meta := newMemMeta()
	r := NewReconciler[models.Note](local, cloud, meta, nil, ReconcileOptions{PoolSize: 1}, logger.Nop())

	stats := r.Reconcile(context.Background())

	assert.Equal(t, 1, stats.Created)
	rec, ok := local.get("n2")
	require.True(t, ok)
	assert.Equal(t, models.SyncedState("T2"), rec.State)
}

func TestReconciler_Summary(t *testing.T) {
	f := newLinkFixture(t, ReconcileOptions{},
		link("a", "https://a.example", "A", models.SyncedState("T1")),
		link("b", "https://b.example", "B", models.UnsyncedState("")),
		link("c", "https://c.example", "C", models.ConflictedState("T1", true)),
		link("d", "https://d.example", "D", models.DeletedState("T1")),
	)

	summary, err := f.r.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, CollectionSummary{
		Collection:    models.CollectionLinks,
		Total:         4,
		Pending:       2,
		Conflicted:    1,
		ConflictedIDs: []string{"c"},
	}, summary)
}
