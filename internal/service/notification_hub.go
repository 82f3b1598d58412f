// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

// DefaultSubscriberBuffer is the channel capacity of a new subscription.
const DefaultSubscriberBuffer = 64

// NotificationHub drops the cached copy of every notified item and fans the
// notification out to subscribers. A subscriber whose buffer is full misses
// the notification.
type NotificationHub struct {
	refreshers map[models.Collection]store.Refresher
	buffer     int
	logger     *logger.Logger

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]chan models.Notification
}

func NewNotificationHub(refreshers map[models.Collection]store.Refresher, buffer int, logger *logger.Logger) *NotificationHub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &NotificationHub{
		refreshers:  refreshers,
		buffer:      buffer,
		logger:      logger,
		subscribers: make(map[int]chan models.Notification),
	}
}

// Notify implements NotificationSink.
func (h *NotificationHub) Notify(ctx context.Context, n models.Notification) {
	if r, ok := h.refreshers[n.Collection]; ok && r != nil {
		r.Refresh(ctx, n.ID)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- n:
		default:
			h.logger.Warn().Int("subscriber", id).Str("collection", n.Collection.String()).Str("id", n.ID).Msg("subscriber is full, notification dropped")
		}
	}
}

// Subscribe returns a channel of notifications and a function that ends the
// subscription and closes the channel.
func (h *NotificationHub) Subscribe() (<-chan models.Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan models.Notification, h.buffer)
	h.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
			close(ch)
		})
	}
}
