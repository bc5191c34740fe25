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

package cli

import (
	"context"
	"testing"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/database/catalogdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, dataDir string, entries ...*database.MapEntry) {
	t.Helper()
	ctx := context.Background()
	catalog, err := catalogdb.OpenCatalogDB(ctx, dataDir)
	require.NoError(t, err)
	defer func() { require.NoError(t, catalog.Close()) }()
	for _, e := range entries {
		require.NoError(t, catalog.PutMap(ctx, e))
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	seedCatalog(t, env.DataDir,
		&database.MapEntry{ID: "a", Name: "Skeld Remix", AuthorName: "Builder", ObjectKey: "k", CreatedAt: 1672531200000},
		&database.MapEntry{ID: "b", Name: "Polus", AuthorName: "Builder", ObjectKey: "k"},
	)

	found, err := Search(context.Background(), env.Env, "remix")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].ID)
	assert.Contains(t, env.out.String(), "Skeld Remix")
	assert.Contains(t, env.out.String(), "2023-01-01")

	env.out.Reset()
	found, err = Search(context.Background(), env.Env, "skeld remx")
	require.NoError(t, err)
	require.Len(t, found, 1, "falls back to fuzzy matching")
	assert.Equal(t, "a", found[0].ID)
}

func TestSearch_PublicOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, authorConfig)
	seedCatalog(t, env.DataDir,
		&database.MapEntry{ID: "a", Name: "Skeld", ObjectKey: "k"},
		&database.MapEntry{ID: "b", Name: "Skeld Public", ObjectKey: "k", IsPublic: true},
	)

	found, err := Search(context.Background(), env.Env, "skeld")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].ID)
}
