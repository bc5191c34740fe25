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

package database

import (
	"context"
	"database/sql"
	"errors"
)

/*
 * Records and interfaces shared by the stores. Implementations live in
 * catalogdb (sqlite) and objstore (bbolt).
 */

// ErrNotFound is returned by lookups for keys or IDs that are not stored.
var ErrNotFound = errors.New("not found")

// ErrNullSQL is returned when a store is used before Open.
var ErrNullSQL = errors.New("database is not connected")

/*
 * Structs for SQL records
 */

// MapEntry is the catalog record of a published map.
type MapEntry struct {
	ThumbnailURL *string `json:"thumbnailURL"`
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"-"`
	Description  string  `json:"description"`
	AuthorID     string  `json:"authorID"`
	AuthorName   string  `json:"authorName"`
	ObjectKey    string  `json:"-"`
	CreatedAt    int64   `json:"createdAt"`
	DBID         int64   `json:"-"`
	V            int     `json:"v"`
	LikeCount    int     `json:"likeCount"`
	IsPublic     bool    `json:"isPublic"`
	IsVerified   bool    `json:"isVerified"`
}

// ProgressFunc receives the bytes written so far out of total.
type ProgressFunc func(done, total int64)

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type CatalogDBI interface {
	GenericDBI
	PutMap(ctx context.Context, entry *MapEntry) error
	GetMap(ctx context.Context, id string) (*MapEntry, error)
	DeleteMap(ctx context.Context, id string) error
	ListByAuthor(ctx context.Context, authorID string) ([]MapEntry, error)
	SearchByName(ctx context.Context, query string, publicOnly bool) ([]MapEntry, error)
	FuzzySearch(ctx context.Context, query string, publicOnly bool) ([]MapEntry, error)
}

type ObjectStoreI interface {
	Put(ctx context.Context, key string, data []byte, progress ProgressFunc) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
