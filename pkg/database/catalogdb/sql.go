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

package catalogdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/database/matcher"
	"github.com/LevelImposter/lim-core/pkg/database/slugs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const mapColumns = `DBID, ID, V, Name, Slug, Description, AuthorID, AuthorName,
	ThumbnailURL, ObjectKey, CreatedAt, LikeCount, IsPublic, IsVerified`

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run catalog database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `vacuum;`); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

func sqlPutMap(ctx context.Context, db *sql.DB, entry *database.MapEntry) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Maps(
			ID, V, Name, Slug, Description, AuthorID, AuthorName,
			ThumbnailURL, ObjectKey, CreatedAt, LikeCount, IsPublic, IsVerified
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(ID) do update set
			V = excluded.V,
			Name = excluded.Name,
			Slug = excluded.Slug,
			Description = excluded.Description,
			AuthorID = excluded.AuthorID,
			AuthorName = excluded.AuthorName,
			ThumbnailURL = excluded.ThumbnailURL,
			ObjectKey = excluded.ObjectKey,
			IsPublic = excluded.IsPublic,
			IsVerified = excluded.IsVerified;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare map insert statement: %w", err)
	}
	defer closeStmt(stmt)

	entry.Slug = slugs.Slugify(entry.Name)
	_, err = stmt.ExecContext(ctx,
		entry.ID,
		entry.V,
		entry.Name,
		entry.Slug,
		entry.Description,
		entry.AuthorID,
		entry.AuthorName,
		entry.ThumbnailURL,
		entry.ObjectKey,
		entry.CreatedAt,
		entry.LikeCount,
		entry.IsPublic,
		entry.IsVerified,
	)
	if err != nil {
		return fmt.Errorf("failed to execute map insert: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMap(row rowScanner) (database.MapEntry, error) {
	var (
		e     database.MapEntry
		thumb sql.NullString
	)
	err := row.Scan(
		&e.DBID,
		&e.ID,
		&e.V,
		&e.Name,
		&e.Slug,
		&e.Description,
		&e.AuthorID,
		&e.AuthorName,
		&thumb,
		&e.ObjectKey,
		&e.CreatedAt,
		&e.LikeCount,
		&e.IsPublic,
		&e.IsVerified,
	)
	if err != nil {
		return e, err //nolint:wrapcheck // callers wrap with context
	}
	if thumb.Valid {
		e.ThumbnailURL = &thumb.String
	}
	return e, nil
}

func sqlGetMap(ctx context.Context, db *sql.DB, id string) (*database.MapEntry, error) {
	q, err := db.PrepareContext(ctx, `select `+mapColumns+` from Maps where ID = ?;`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare map query statement: %w", err)
	}
	defer closeStmt(q)

	e, err := scanMap(q.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("map %s: %w", id, database.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to scan map row: %w", err)
	}
	return &e, nil
}

func sqlDeleteMap(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `delete from Maps where ID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("map %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func queryMaps(ctx context.Context, db *sql.DB, query string, args ...any) ([]database.MapEntry, error) {
	list := make([]database.MapEntry, 0, 16)

	q, err := db.PrepareContext(ctx, query)
	if err != nil {
		return list, fmt.Errorf("failed to prepare maps query statement: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx, args...)
	if err != nil {
		return list, fmt.Errorf("failed to query maps: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		e, scanErr := scanMap(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan map row: %w", scanErr)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating map rows: %w", err)
	}
	return list, nil
}

func sqlListByAuthor(ctx context.Context, db *sql.DB, authorID string) ([]database.MapEntry, error) {
	return queryMaps(ctx, db, `
		select `+mapColumns+`
		from Maps
		where AuthorID = ?
		order by CreatedAt desc, DBID desc;
	`, authorID)
}

func sqlSearchByName(
	ctx context.Context,
	db *sql.DB,
	query string,
	publicOnly bool,
) ([]database.MapEntry, error) {
	slug := slugs.Slugify(query)
	if slug == "" {
		return []database.MapEntry{}, nil
	}
	return queryMaps(ctx, db, `
		select `+mapColumns+`
		from Maps
		where Slug like '%' || ? || '%'
		and (IsPublic = 1 or ? = 0)
		order by LikeCount desc, CreatedAt desc;
	`, slug, publicOnly)
}

func sqlVisibleMaps(ctx context.Context, db *sql.DB, publicOnly bool) ([]database.MapEntry, error) {
	return queryMaps(ctx, db, `
		select `+mapColumns+`
		from Maps
		where IsPublic = 1 or ? = 0
		order by LikeCount desc, CreatedAt desc;
	`, publicOnly)
}

// sqlFuzzySearch ranks every visible map by how close its slug is to the
// query slug. The catalog is local, so the candidates are scanned in full.
func sqlFuzzySearch(
	ctx context.Context,
	db *sql.DB,
	query string,
	publicOnly bool,
) ([]database.MapEntry, error) {
	slug := slugs.Slugify(query)
	if slug == "" {
		return []database.MapEntry{}, nil
	}
	all, err := sqlVisibleMaps(ctx, db, publicOnly)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string][]database.MapEntry, len(all))
	candidates := make([]string, 0, len(all))
	for _, e := range all {
		if _, seen := bySlug[e.Slug]; !seen {
			candidates = append(candidates, e.Slug)
		}
		bySlug[e.Slug] = append(bySlug[e.Slug], e)
	}

	out := make([]database.MapEntry, 0, 8)
	for _, s := range matcher.Rank(slug, candidates) {
		out = append(out, bySlug[s]...)
	}
	return out, nil
}
