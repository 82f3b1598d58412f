// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrNoHTTPHandler is returned by NewServer without an HTTP handler to serve.
	ErrNoHTTPHandler = errors.New("no http handler to serve")
	// ErrNoAddress is returned by NewServer when the listen address is empty.
	ErrNoAddress = errors.New("server address is not set")
)
