// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers shared by the sync client
// and the file-store server: context keys, content and directory tags, JSON
// response writing, the resty HTTP client, request tokens and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AccountCtxKey is the key used to store the authenticated account name in
// the context of a server request.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.AccountCtxKey, "alice")
var AccountCtxKey = contextKey("account")

// GetAccountFromContext returns the account the auth middleware stored in ctx.
// ok is false when the request was not authenticated.
func GetAccountFromContext(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(AccountCtxKey).(string)
	return account, ok
}
