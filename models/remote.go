// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DirectoryListing is the wire form of a remote directory: its change tag and
// the tag of every file in it, keyed by file name.
type DirectoryListing struct {
	ETag    string            `json:"etag"`
	Entries map[string]string `json:"entries"`
}

// RemoteFile is a downloaded remote document.
type RemoteFile struct {
	Path string
	Body []byte
	ETag string
}
