// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
)

// withContentDigest checks a PUT body against [utils.ContentDigestHeader].
// Requests without the header are passed through.
func withContentDigest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := r.Header.Get(utils.ContentDigestHeader)
		if want == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
		if err != nil {
			log.Err(err).Str("func", "withContentDigest").Msg("failed to read request body")
			http.Error(w, "error reading body", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if got := utils.ContentETag(body); got != want {
			log.Error().Str("func", "withContentDigest").
				Str("digest from request", want).
				Str("digest of body", got).
				Msg("digests are not equal")
			http.Error(w, ErrDigestMismatch.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
