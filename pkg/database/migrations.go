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
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/LevelImposter/lim-core/pkg/helpers/syncutil"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

var migrationMutex syncutil.Mutex

// gooseZerologAdapter implements goose.Logger interface to redirect
// goose output to zerolog instead of stdout
type gooseZerologAdapter struct{}

func (*gooseZerologAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (*gooseZerologAdapter) Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// prepareGoose points goose's global state at migrationFiles. Callers must
// hold migrationMutex.
func prepareGoose(migrationFiles fs.FS) error {
	goose.SetLogger(&gooseZerologAdapter{})
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies every pending migration in migrationDir. Goose keeps its
// filesystem and dialect in package globals, so runs are serialized.
func MigrateUp(db *sql.DB, migrationFiles fs.FS, migrationDir string) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	if err := prepareGoose(migrationFiles); err != nil {
		return err
	}

	log.Debug().Str("migration_dir", migrationDir).Msg("running goose up migrations")
	if err := goose.Up(db, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations up: %w", err)
	}
	return nil
}

// MigrationVersion returns the schema version recorded in db.
func MigrationVersion(db *sql.DB, migrationFiles fs.FS) (int64, error) {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	if err := prepareGoose(migrationFiles); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
