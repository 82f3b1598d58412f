// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the file-store HTTP server until a stop signal and
// shuts it down gracefully.
package server
