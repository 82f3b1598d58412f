// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

// DefaultCacheSize is the number of records kept per collection.
const DefaultCacheSize = 512

// CachedItemRepository is an [ItemRepository] that serves Get from memory and
// can be told to drop stale entries.
type CachedItemRepository[C models.Content[C]] interface {
	ItemRepository[C]
	Refresher
}

type cachedItems[C models.Content[C]] struct {
	ItemRepository[C]
	cache *lru.Cache[string, models.Record[C]]
}

// NewCachedItemRepository wraps repo with an LRU cache of the given size.
func NewCachedItemRepository[C models.Content[C]](repo ItemRepository[C], size int) (CachedItemRepository[C], error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, models.Record[C]](size)
	if err != nil {
		return nil, fmt.Errorf("error creating item cache: %w", err)
	}

	return &cachedItems[C]{
		ItemRepository: repo,
		cache:          cache,
	}, nil
}

func (c *cachedItems[C]) Get(ctx context.Context, id string) (models.Record[C], error) {
	if rec, ok := c.cache.Get(id); ok {
		return rec, nil
	}

	rec, err := c.ItemRepository.Get(ctx, id)
	if err != nil {
		return rec, err
	}
	c.cache.Add(id, rec)

	return rec, nil
}

func (c *cachedItems[C]) Insert(ctx context.Context, rec models.Record[C]) error {
	defer c.cache.Remove(rec.ID)
	return c.ItemRepository.Insert(ctx, rec)
}

func (c *cachedItems[C]) UpdateContent(ctx context.Context, id string, content C, updated time.Time) error {
	defer c.cache.Remove(id)
	return c.ItemRepository.UpdateContent(ctx, id, content, updated)
}

func (c *cachedItems[C]) UpdateState(ctx context.Context, id string, state models.SyncState) error {
	defer c.cache.Remove(id)
	return c.ItemRepository.UpdateState(ctx, id, state)
}

func (c *cachedItems[C]) Delete(ctx context.Context, id string) error {
	defer c.cache.Remove(id)
	return c.ItemRepository.Delete(ctx, id)
}

// Refresh reloads id from the underlying repository. A record that no longer
// exists is simply dropped.
func (c *cachedItems[C]) Refresh(ctx context.Context, id string) {
	c.cache.Remove(id)

	rec, err := c.ItemRepository.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			logger.FromContext(ctx).Err(err).
				Str("func", "cachedItems.Refresh").
				Str("id", id).
				Msg("failed to reload item")
		}
		return
	}
	c.cache.Add(id, rec)
}

// Purge drops every cached record.
func (c *cachedItems[C]) Purge() {
	c.cache.Purge()
}
