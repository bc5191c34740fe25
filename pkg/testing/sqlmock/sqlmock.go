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

// Package sqlmock provides SQL mocking utilities for testing.
// This package is separate from helpers to avoid import cycles with database packages.
package sqlmock

import (
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LevelImposter/lim-core/pkg/database"
)

// MapColumns is the column order of every catalog map query.
var MapColumns = []string{
	"DBID", "ID", "V", "Name", "Slug", "Description", "AuthorID", "AuthorName",
	"ThumbnailURL", "ObjectKey", "CreatedAt", "LikeCount", "IsPublic", "IsVerified",
}

// NewSQLMock creates a new SQL mock with regex query matching enabled.
// Returns a mock database connection and a sqlmock.Sqlmock for setting expectations.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}

// NewMapRows builds catalog result rows from entries.
func NewMapRows(entries ...database.MapEntry) *sqlmock.Rows {
	rows := sqlmock.NewRows(MapColumns)
	for i := range entries {
		e := &entries[i]
		var thumb any
		if e.ThumbnailURL != nil {
			thumb = *e.ThumbnailURL
		}
		rows.AddRow(
			e.DBID, e.ID, e.V, e.Name, e.Slug, e.Description, e.AuthorID, e.AuthorName,
			thumb, e.ObjectKey, e.CreatedAt, e.LikeCount, e.IsPublic, e.IsVerified,
		)
	}
	return rows
}
