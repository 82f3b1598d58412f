// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "go-link-keeper"
)

// newTestServer serves the full router over a bolt file in a temp dir.
func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()

	files, err := store.NewBoltFileStorage(filepath.Join(t.TempDir(), "files.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { files.Close() })

	services, err := service.NewServices(&store.Storages{FileStorage: files}, models.NewAppBuildInfo("1.2.3", "", ""), logger.Nop())
	require.NoError(t, err)

	cfg.HTTPAddress = "127.0.0.1:0"
	srv := httptest.NewServer(NewHandler(services, &cfg, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

// injectNopLogger puts a nop logger in the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	return r.WithContext(nop.Logger.WithContext(r.Context()))
}
