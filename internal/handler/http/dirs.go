// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
)

func (h *Handler) listDirectory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	dir := wildcardPath(r)

	listing, err := h.services.FileService.ListDirectory(r.Context(), dir)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDirectory").Str("dir", dir).Msg("error listing directory")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	setETag(w, listing.ETag)
	if _, err = utils.WriteJSON(w, listing, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.listDirectory").Msg("error writing listing")
	}
}

func (h *Handler) directoryTag(w http.ResponseWriter, r *http.Request) {
	eTag, err := h.services.FileService.DirectoryTag(r.Context(), wildcardPath(r))
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	setETag(w, eTag)
	w.WriteHeader(http.StatusOK)
}
