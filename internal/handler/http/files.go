// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
)

// maxDocumentSize bounds a PUT body.
const maxDocumentSize = 4 << 20

func (h *Handler) getFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	filePath := wildcardPath(r)

	file, err := h.services.FileService.Get(r.Context(), filePath)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getFile").Str("path", filePath).Msg("error reading file")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	setETag(w, file.ETag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Body)
}

func (h *Handler) headFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.services.FileService.Get(r.Context(), wildcardPath(r))
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	setETag(w, file.ETag)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) putFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	filePath := wildcardPath(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		log.Err(err).Str("func", "*Handler.putFile").Msg("failed to read request body")
		http.Error(w, "error reading body", http.StatusRequestEntityTooLarge)
		return
	}

	eTag, err := h.services.FileService.Put(r.Context(), filePath, body, unquoteETag(r.Header.Get("If-Match")))
	if err != nil {
		log.Err(err).Str("func", "*Handler.putFile").Str("path", filePath).Msg("error storing file")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	account, _ := utils.GetAccountFromContext(r.Context())
	log.Debug().Str("account", account).Str("path", filePath).Str("etag", eTag).Msg("file stored")

	setETag(w, eTag)
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	filePath := wildcardPath(r)

	if err := h.services.FileService.Delete(r.Context(), filePath); err != nil {
		log.Err(err).Str("func", "*Handler.deleteFile").Str("path", filePath).Msg("error deleting file")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	account, _ := utils.GetAccountFromContext(r.Context())
	log.Debug().Str("account", account).Str("path", filePath).Msg("file deleted")

	w.WriteHeader(http.StatusNoContent)
}

func wildcardPath(r *http.Request) string {
	return "/" + strings.TrimLeft(chi.URLParam(r, "*"), "/")
}

func setETag(w http.ResponseWriter, eTag string) {
	w.Header().Set("ETag", `"`+eTag+`"`)
}

func unquoteETag(eTag string) string {
	return strings.Trim(strings.TrimSpace(eTag), `"`)
}
