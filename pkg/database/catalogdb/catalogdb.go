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

// Package catalogdb stores the metadata of published maps in SQLite.
package catalogdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LevelImposter/lim-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DBFile           = "catalog.db"
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"
)

type CatalogDB struct {
	sql  *sql.DB
	ctx  context.Context
	path string
}

var _ database.CatalogDBI = (*CatalogDB)(nil)

// OpenCatalogDB opens (creating if needed) the catalog in dataDir and
// brings its schema up to date.
func OpenCatalogDB(ctx context.Context, dataDir string) (*CatalogDB, error) {
	db := &CatalogDB{ctx: ctx, path: filepath.Join(dataDir, DBFile)}
	if err := db.Open(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *CatalogDB) Open() error {
	if err := os.MkdirAll(filepath.Dir(db.path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlInstance, err := sql.Open("sqlite3", db.path+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	return db.Allocate()
}

func (db *CatalogDB) GetDBPath() string {
	return db.path
}

func (db *CatalogDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *CatalogDB) Allocate() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *CatalogDB) MigrateUp() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *CatalogDB) Vacuum() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *CatalogDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// The schema is created on the injected instance.
func (db *CatalogDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

// PutMap inserts entry or replaces the stored entry with the same ID.
func (db *CatalogDB) PutMap(ctx context.Context, entry *database.MapEntry) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlPutMap(ctx, db.sql, entry)
}

func (db *CatalogDB) GetMap(ctx context.Context, id string) (*database.MapEntry, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetMap(ctx, db.sql, id)
}

func (db *CatalogDB) DeleteMap(ctx context.Context, id string) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlDeleteMap(ctx, db.sql, id)
}

// ListByAuthor returns an author's maps, newest first.
func (db *CatalogDB) ListByAuthor(ctx context.Context, authorID string) ([]database.MapEntry, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlListByAuthor(ctx, db.sql, authorID)
}

// SearchByName matches query against map name slugs, so case, accents and
// punctuation are ignored.
func (db *CatalogDB) SearchByName(
	ctx context.Context,
	query string,
	publicOnly bool,
) ([]database.MapEntry, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlSearchByName(ctx, db.sql, query, publicOnly)
}

// FuzzySearch returns maps whose name slug is close to the query's, for
// typos that SearchByName misses. Best matches come first.
func (db *CatalogDB) FuzzySearch(
	ctx context.Context,
	query string,
	publicOnly bool,
) ([]database.MapEntry, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlFuzzySearch(ctx, db.sql, query, publicOnly)
}
