// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-link-keeper/models"
)

// Subscriber hands out notification subscriptions.
type Subscriber interface {
	Subscribe() (<-chan models.Notification, func())
}

// NotificationWorker passes every notification of a subscription to handle.
type NotificationWorker struct {
	hub    Subscriber
	handle func(models.Notification)

	mu     sync.Mutex
	cancel func()
	wg     sync.WaitGroup
}

func NewNotificationWorker(hub Subscriber, handle func(models.Notification)) *NotificationWorker {
	return &NotificationWorker{hub: hub, handle: handle}
}

func (w *NotificationWorker) Run(ctx context.Context) {
	w.Stop()

	ch, unsubscribe := w.hub.Subscribe()
	ctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.cancel = func() {
		cancel()
		unsubscribe()
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-ch:
				if !ok {
					return
				}
				w.handle(n)
			}
		}
	}()
}

func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
