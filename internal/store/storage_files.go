// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

var (
	bodiesBucket = []byte("bodies")
	etagsBucket  = []byte("etags")
)

// boltFileStorage keeps remote documents in a single bbolt file. Bodies and
// tags live in two buckets keyed by the cleaned absolute path; a directory is
// the set of keys sharing its prefix.
type boltFileStorage struct {
	db     *bbolt.DB
	logger *logger.Logger
}

// NewBoltFileStorage opens (or creates) the bbolt file at filePath.
func NewBoltFileStorage(filePath string, log *logger.Logger) (FileStorage, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating file storage dir: %w", err)
		}
	}

	db, err := bbolt.Open(filePath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		log.Err(err).Str("func", "NewBoltFileStorage").Str("path", filePath).Msg("error opening bolt file")
		return nil, fmt.Errorf("error opening file storage: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bodiesBucket, etagsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating file storage buckets: %w", err)
	}

	return &boltFileStorage{db: db, logger: log}, nil
}

func (s *boltFileStorage) Put(ctx context.Context, filePath string, body []byte, ifMatch string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := cleanPath(filePath)
	eTag := utils.ContentETag(body)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		tags := tx.Bucket(etagsBucket)
		current := tags.Get([]byte(key))
		if !matchesETag(ifMatch, current) {
			return fmt.Errorf("%w: path=%s", ErrETagMismatch, key)
		}

		if err := tx.Bucket(bodiesBucket).Put([]byte(key), body); err != nil {
			return err
		}
		return tags.Put([]byte(key), []byte(eTag))
	})
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "boltFileStorage.Put").Str("path", key).Msg("file not stored")
		return "", err
	}

	return eTag, nil
}

func (s *boltFileStorage) Get(ctx context.Context, filePath string) (models.RemoteFile, error) {
	if err := ctx.Err(); err != nil {
		return models.RemoteFile{}, err
	}

	key := cleanPath(filePath)
	file := models.RemoteFile{Path: key}

	err := s.db.View(func(tx *bbolt.Tx) error {
		eTag := tx.Bucket(etagsBucket).Get([]byte(key))
		if eTag == nil {
			return fmt.Errorf("%w: path=%s", ErrFileNotFound, key)
		}
		file.ETag = string(eTag)
		// bolt values are only valid inside the transaction
		file.Body = bytes.Clone(tx.Bucket(bodiesBucket).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return models.RemoteFile{}, err
	}

	return file, nil
}

func (s *boltFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(cleanPath(filePath))

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bodiesBucket).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(etagsBucket).Delete(key)
	})
}

func (s *boltFileStorage) List(ctx context.Context, dir string) (models.DirectoryListing, error) {
	if err := ctx.Err(); err != nil {
		return models.DirectoryListing{}, err
	}

	prefix := dirPrefix(dir)
	entries := make(map[string]string)
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(etagsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			found = true
			name := string(k[len(prefix):])
			if strings.Contains(name, "/") {
				continue
			}
			entries[name] = string(v)
		}
		return nil
	})
	if err != nil {
		return models.DirectoryListing{}, err
	}

	if !found {
		return models.DirectoryListing{}, fmt.Errorf("%w: dir=%s", ErrDirectoryNotFound, cleanPath(dir))
	}

	return models.DirectoryListing{
		ETag:    utils.DirectoryETag(entries),
		Entries: entries,
	}, nil
}

func (s *boltFileStorage) DirectoryTag(ctx context.Context, dir string) (string, error) {
	listing, err := s.List(ctx, dir)
	if err != nil {
		return "", err
	}
	return listing.ETag, nil
}

func (s *boltFileStorage) Close() error {
	return s.db.Close()
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}

func dirPrefix(dir string) []byte {
	cleaned := cleanPath(dir)
	if cleaned == "/" {
		return []byte(cleaned)
	}
	return []byte(cleaned + "/")
}

// matchesETag implements the If-Match precondition: empty means
// unconditional, "*" requires an existing file.
func matchesETag(ifMatch string, current []byte) bool {
	switch ifMatch {
	case "":
		return true
	case "*":
		return current != nil
	}
	return current != nil && strings.Trim(ifMatch, `"`) == string(current)
}
