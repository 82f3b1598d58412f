// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"slices"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Hash computes a SHA-256 digest over data using a hasher pulled from the
// pool.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// ContentETag returns the version tag of a stored document: the hex encoded
// SHA-256 of its body.
func ContentETag(body []byte) string {
	return hex.EncodeToString(Hash(body))
}

// DirectoryETag returns the change tag of a directory listing. It hashes the
// sorted "name:etag" lines, so it changes whenever any entry is added,
// removed or rewritten.
func DirectoryETag(entries map[string]string) string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	h := hasherPool.Get().(hash.Hash)
	h.Reset()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{':'})
		h.Write([]byte(entries[name]))
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
