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
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/database/catalogdb"
	"github.com/rs/zerolog/log"
)

// Search lists catalog maps matching query, falling back to fuzzy matching
// when no name contains it. Private maps are included unless the config
// publishes publicly.
func Search(ctx context.Context, env *Env, query string) ([]database.MapEntry, error) {
	catalog, err := catalogdb.OpenCatalogDB(ctx, env.DataDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := catalog.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close catalog")
		}
	}()

	publicOnly := env.Cfg.PublishPublic()
	found, err := catalog.SearchByName(ctx, query, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	if len(found) == 0 {
		log.Debug().Str("query", query).Msg("no substring matches, trying fuzzy search")
		found, err = catalog.FuzzySearch(ctx, query, publicOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to search catalog: %w", err)
		}
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tAUTHOR\tLIKES\tCREATED")
	for _, e := range found {
		created := time.UnixMilli(e.CreatedAt).UTC().Format(time.DateOnly)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Name, e.AuthorName, e.LikeCount, created)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write search results: %w", err)
	}
	return found, nil
}
