// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	dirsPattern  = "/api/dirs/*"
	filesPattern = "/api/files/*"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)

	router.Get("/api/version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		if h.tokenSignKey != "" {
			r.Use(h.auth)
		}

		r.With(withGZip).Get(dirsPattern, h.listDirectory)
		r.Head(dirsPattern, h.directoryTag)

		r.Get(filesPattern, h.getFile)
		r.Head(filesPattern, h.headFile)
		r.With(withContentDigest).Put(filesPattern, h.putFile)
		r.Delete(filesPattern, h.deleteFile)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
