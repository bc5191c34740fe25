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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/LevelImposter/lim-core/pkg/database/catalogdb"
	"github.com/LevelImposter/lim-core/pkg/database/objstore"
	_ "github.com/mattn/go-sqlite3"
)

func NewInMemoryCatalogDB(t *testing.T) (db *catalogdb.CatalogDB, cleanup func()) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	db = &catalogdb.CatalogDB{}
	err = db.SetSQLForTesting(context.Background(), sqlDB)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up CatalogDB for testing: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close CatalogDB: %v", err)
		}
	}
	return db, cleanup
}

func NewTempObjectStore(t *testing.T) (store *objstore.Store, cleanup func()) {
	t.Helper()

	store, err := objstore.Open(filepath.Join(t.TempDir(), objstore.DBFile))
	if err != nil {
		t.Fatalf("Failed to open object store: %v", err)
	}

	cleanup = func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close object store: %v", err)
		}
	}
	return store, cleanup
}
