// LIM Core
// Copyright (c) 2026 The LevelImposter Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LIM Core.
//
// LIM Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LIM Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LIM Core.  If not, see <http://www.gnu.org/licenses/>.

// Package objstore is a local object store on bbolt. It stands in for the
// cloud bucket published maps and thumbnails are uploaded to, and resolves
// asset locators of the form "asset:<id>".
package objstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/maps/assets"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	DBFile        = "objects.db"
	BucketObjects = "objects"
	BucketAssets  = "assets"
	// ChunkSize is how many bytes are written between progress reports.
	ChunkSize = 64 * 1024
)

// ErrEmptyKey is returned when putting an object without a key.
var ErrEmptyKey = errors.New("empty object key")

type Store struct {
	bdb *bolt.DB
}

var _ database.ObjectStoreI = (*Store)(nil)

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for object store: %w", err)
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = bdb.Update(func(txn *bolt.Tx) error {
		for _, name := range []string{BucketObjects, BucketAssets} {
			if _, err := txn.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		if closeErr := bdb.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close bolt database")
		}
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}
	return &Store{bdb: bdb}, nil
}

// OpenInDir opens the store file inside dataDir.
func OpenInDir(dataDir string) (*Store, error) {
	return Open(filepath.Join(dataDir, DBFile))
}

func (s *Store) Close() error {
	if err := s.bdb.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

// Put stores data under key, replacing any previous object. The value is
// assembled in ChunkSize steps, reporting progress after each one; ctx is
// checked between chunks and the write is abandoned once it is done.
func (s *Store) Put(ctx context.Context, key string, data []byte, progress database.ProgressFunc) error {
	if key == "" {
		return ErrEmptyKey
	}
	total := int64(len(data))
	buf := bytes.NewBuffer(make([]byte, 0, len(data)))
	for written := 0; ; {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("failed to put object %s: %w", key, err)
		}
		end := min(written+ChunkSize, len(data))
		buf.Write(data[written:end])
		written = end
		if progress != nil {
			progress(int64(written), total)
		}
		if written == len(data) {
			break
		}
	}

	err := s.bdb.Update(func(txn *bolt.Tx) error {
		return txn.Bucket([]byte(BucketObjects)).Put([]byte(key), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	log.Debug().Str("key", key).Int64("size", total).Msg("stored object")
	return nil
}

// Get returns a copy of the object under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	var out []byte
	err := s.bdb.View(func(txn *bolt.Tx) error {
		v := txn.Bucket([]byte(BucketObjects)).Get([]byte(key))
		if v == nil {
			return database.ErrNotFound
		}
		// bolt values are only valid inside the transaction
		out = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	err := s.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketObjects))
		if b.Get([]byte(key)) == nil {
			return database.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// Keys lists object keys starting with prefix, in byte order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	keys := make([]string, 0)
	err := s.bdb.View(func(txn *bolt.Tx) error {
		c := txn.Bucket([]byte(BucketObjects)).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return keys, nil
}

// PutAsset stores an asset record under its locator key.
func (s *Store) PutAsset(a *models.Asset) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal asset %s: %w", a.ID, err)
	}
	err = s.bdb.Update(func(txn *bolt.Tx) error {
		return txn.Bucket([]byte(BucketAssets)).Put([]byte(assets.LocatorFor(a.ID)), b)
	})
	if err != nil {
		return fmt.Errorf("failed to put asset %s: %w", a.ID, err)
	}
	return nil
}

// GetAsset resolves a locator ("asset:<id>") or a bare asset ID.
func (s *Store) GetAsset(locator string) (*models.Asset, error) {
	key := locator
	if !strings.HasPrefix(key, assets.LocatorScheme) {
		key = assets.LocatorFor(models.GUID(locator))
	}
	var a models.Asset
	err := s.bdb.View(func(txn *bolt.Tx) error {
		v := txn.Bucket([]byte(BucketAssets)).Get([]byte(key))
		if v == nil {
			return database.ErrNotFound
		}
		if err := json.Unmarshal(v, &a); err != nil {
			return fmt.Errorf("failed to unmarshal asset data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", locator, err)
	}
	a.Locator = key
	return &a, nil
}

// PutAssets stores every asset of doc in one transaction.
func (s *Store) PutAssets(doc *models.Map) error {
	err := s.bdb.Update(func(txn *bolt.Tx) error {
		bucket := txn.Bucket([]byte(BucketAssets))
		for _, a := range doc.Assets {
			b, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("failed to marshal asset %s: %w", a.ID, err)
			}
			if err := bucket.Put([]byte(assets.LocatorFor(a.ID)), b); err != nil {
				return fmt.Errorf("failed to put asset %s: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store map assets: %w", err)
	}
	return nil
}
