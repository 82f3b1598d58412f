// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

// NewRemoteStore builds the [RemoteStore] selected by cfg.Adapter.Kind.
func NewRemoteStore(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (RemoteStore, error) {
	switch cfg.Adapter.Kind {
	case config.AdapterKindHTTP, "":
		return NewHTTPRemoteStore(cfg.Adapter, cfg.App, logger)
	case config.AdapterKindS3:
		return NewS3RemoteStore(ctx, cfg.Adapter, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapterKind, cfg.Adapter.Kind)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
