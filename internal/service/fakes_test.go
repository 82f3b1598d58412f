// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

// memItems is an in-memory store.ItemRepository enforcing natural key
// uniqueness among non-duplicated records.
type memItems[C models.Content[C]] struct {
	mu        sync.Mutex
	records   map[string]models.Record[C]
	failOn    map[string]error
	refreshed []string
}

func newMemItems[C models.Content[C]](recs ...models.Record[C]) *memItems[C] {
	m := &memItems[C]{records: map[string]models.Record[C]{}, failOn: map[string]error{}}
	for _, rec := range recs {
		m.records[rec.ID] = rec
	}
	return m
}

func (m *memItems[C]) List(ctx context.Context) ([]models.Record[C], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["List"]; err != nil {
		return nil, err
	}
	out := make([]models.Record[C], 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memItems[C]) ListIDs(ctx context.Context) ([]string, error) {
	recs, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (m *memItems[C]) Get(ctx context.Context, id string) (models.Record[C], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return models.Record[C]{}, store.ErrItemNotFound
	}
	return rec, nil
}

func (m *memItems[C]) Insert(ctx context.Context, rec models.Record[C]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["Insert:"+rec.ID]; err != nil {
		return err
	}
	if m.collides(rec.ID, rec.Content, rec.State) {
		return fmt.Errorf("insert: %w", store.ErrDuplicateNaturalKey)
	}
	m.records[rec.ID] = rec
	return nil
}

// collides mirrors the partial unique index on natural_key.
func (m *memItems[C]) collides(id string, content C, state models.SyncState) bool {
	key := content.NaturalKey()
	if key == "" || state.Duplicated {
		return false
	}
	for _, other := range m.records {
		if other.ID != id && !other.State.Duplicated && other.Content.NaturalKey() == key {
			return true
		}
	}
	return false
}

func (m *memItems[C]) UpdateContent(ctx context.Context, id string, content C, updated time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return store.ErrItemNotFound
	}
	if m.collides(id, content, rec.State) {
		return fmt.Errorf("update content: %w", store.ErrDuplicateNaturalKey)
	}
	rec.Content = content
	rec.Updated = updated
	m.records[id] = rec
	return nil
}

func (m *memItems[C]) UpdateState(ctx context.Context, id string, state models.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["UpdateState:"+id]; err != nil {
		return err
	}
	rec, ok := m.records[id]
	if !ok {
		return store.ErrItemNotFound
	}
	rec.State = state
	m.records[id] = rec
	return nil
}

func (m *memItems[C]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memItems[C]) FindByNaturalKey(ctx context.Context, key string) (models.Record[C], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if key != "" && !rec.State.Duplicated && rec.Content.NaturalKey() == key {
			return rec, nil
		}
	}
	return models.Record[C]{}, store.ErrItemNotFound
}

func (m *memItems[C]) Refresh(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, id)
}

func (m *memItems[C]) Purge() {}

func (m *memItems[C]) get(id string) (models.Record[C], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

// memCloud is an in-memory CloudStore. Tags are content hashes, so an
// unchanged record keeps its tag across uploads.
type memCloud[C models.Content[C]] struct {
	mu        sync.Mutex
	records   map[string]models.Record[C]
	tags      map[string]string
	failOn    map[string]error
	downloads map[string]int
	uploads   map[string]int
	deletes   map[string]int
}

func newMemCloud[C models.Content[C]]() *memCloud[C] {
	return &memCloud[C]{
		records:   map[string]models.Record[C]{},
		tags:      map[string]string{},
		failOn:    map[string]error{},
		downloads: map[string]int{},
		uploads:   map[string]int{},
		deletes:   map[string]int{},
	}
}

// put stores rec under an explicit tag, bypassing the upload counters.
func (c *memCloud[C]) put(rec models.Record[C], tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec.State = models.SyncState{}
	c.records[rec.ID] = rec
	c.tags[rec.ID] = tag
}

func (c *memCloud[C]) Collection() models.Collection {
	return models.CollectionOf[C]()
}

func (c *memCloud[C]) DirectoryTag(ctx context.Context) (string, error) {
	listing, err := c.List(ctx)
	return listing.ETag, err
}

func (c *memCloud[C]) List(ctx context.Context) (models.DirectoryListing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failOn["List"]; err != nil {
		return models.DirectoryListing{}, err
	}
	entries := make(map[string]string, len(c.tags))
	for id, tag := range c.tags {
		entries[id] = tag
	}
	listing := models.DirectoryListing{Entries: entries}
	if len(entries) > 0 {
		listing.ETag = utils.DirectoryETag(entries)
	}
	return listing, nil
}

func (c *memCloud[C]) Download(ctx context.Context, id string) (models.Record[C], string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.downloads[id]++
	if err := c.failOn["Download:"+id]; err != nil {
		return models.Record[C]{}, "", err
	}
	rec, ok := c.records[id]
	if !ok {
		return models.Record[C]{}, "", adapter.ErrNotFound
	}
	return rec, c.tags[id], nil
}

func (c *memCloud[C]) Upload(ctx context.Context, rec models.Record[C], ifMatch string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploads[rec.ID]++
	if err := c.failOn["Upload:"+rec.ID]; err != nil {
		return "", err
	}
	if ifMatch != "" && c.tags[rec.ID] != ifMatch {
		return "", adapter.ErrContentConflict
	}
	body, err := models.EncodeDocument(rec)
	if err != nil {
		return "", err
	}
	tag := utils.ContentETag(body)
	rec.State = models.SyncState{}
	c.records[rec.ID] = rec
	c.tags[rec.ID] = tag
	return tag, nil
}

func (c *memCloud[C]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes[id]++
	if err := c.failOn["Delete:"+id]; err != nil {
		return err
	}
	delete(c.records, id)
	delete(c.tags, id)
	return nil
}

func (c *memCloud[C]) Exists(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.records[id]
	return ok, nil
}

func (c *memCloud[C]) tag(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tags[id]
}

// memMeta is an in-memory store.SyncMetaRepository.
type memMeta struct {
	mu   sync.Mutex
	tags map[models.Collection]string
	last models.LastSync
	err  error
}

func newMemMeta() *memMeta {
	return &memMeta{tags: map[models.Collection]string{}}
}

func (m *memMeta) DirectoryTag(ctx context.Context, collection models.Collection) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[collection], m.err
}

func (m *memMeta) SetDirectoryTag(ctx context.Context, collection models.Collection, eTag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[collection] = eTag
	return nil
}

func (m *memMeta) LastSync(ctx context.Context) (models.LastSync, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, nil
}

func (m *memMeta) SetLastSync(ctx context.Context, last models.LastSync) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = last
	return nil
}

// recordingSink collects notifications.
type recordingSink struct {
	mu   sync.Mutex
	seen []models.Notification
}

func (s *recordingSink) Notify(ctx context.Context, n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, n)
}

func (s *recordingSink) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.seen...)
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func link(id, url, name string, state models.SyncState) models.Record[models.Link] {
	return models.Record[models.Link]{
		ID:      id,
		Created: testTime,
		Updated: testTime,
		Content: models.Link{URL: url, Name: name},
		State:   state,
	}
}
