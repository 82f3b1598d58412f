// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header.
var (
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")
	ErrInvalidToken             = errors.New("invalid or expired token")

	// ErrDigestMismatch is returned when a PUT body does not hash to the
	// digest the client announced.
	ErrDigestMismatch = errors.New("body digest mismatch")
)
