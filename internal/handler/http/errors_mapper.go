// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidPath:  http.StatusBadRequest,
	service.ErrInvalidInput: http.StatusBadRequest,

	store.ErrFileNotFound:      http.StatusNotFound,
	store.ErrDirectoryNotFound: http.StatusNotFound,
	store.ErrETagMismatch:      http.StatusPreconditionFailed,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
