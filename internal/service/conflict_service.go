// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/models"
)

// CollectionConflicts opens resolution sessions within one collection. It is
// satisfied by ConflictSessions.
type CollectionConflicts interface {
	Collection() models.Collection
	Open(ctx context.Context, id string) (ConflictSession, error)
}

type conflictService struct {
	collections map[models.Collection]CollectionConflicts
}

func NewConflictService(collections ...CollectionConflicts) ConflictResolver {
	byName := make(map[models.Collection]CollectionConflicts, len(collections))
	for _, c := range collections {
		byName[c.Collection()] = c
	}
	return &conflictService{collections: byName}
}

func (s *conflictService) Open(ctx context.Context, collection models.Collection, id string) (ConflictSession, error) {
	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCollection, collection)
	}
	return c.Open(ctx, id)
}

// Resolve runs one action to completion. A session that ended while loading,
// because the item is no longer conflicted, is returned as is.
func (s *conflictService) Resolve(ctx context.Context, collection models.Collection, id string, action Action) (ConflictState, error) {
	session, err := s.Open(ctx, collection, id)
	if err != nil {
		if session != nil {
			return session.State(), err
		}
		return ConflictState{ID: id}, err
	}

	state := session.State()
	if state.Phase.Done() {
		return state, nil
	}
	return session.Invoke(ctx, action)
}
