// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the file-store server's REST API.
//
// Files live under /api/files and directory listings under /api/dirs. Every
// response carries the stored ETag; PUT honours If-Match. Request tracing,
// access logging, bearer token checks, body digests and response compression
// are handled here before the request reaches the service layer.
package http
