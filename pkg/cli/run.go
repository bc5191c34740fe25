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
	"io"
	"time"

	"github.com/LevelImposter/lim-core/pkg/config"
	"github.com/LevelImposter/lim-core/pkg/database/catalogdb"
	"github.com/LevelImposter/lim-core/pkg/database/objstore"
	"github.com/LevelImposter/lim-core/pkg/maps/assets"
	"github.com/LevelImposter/lim-core/pkg/maps/mapfile"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/publish"
	"github.com/LevelImposter/lim-core/pkg/maps/refs"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// ThumbnailType is the media type thumbnails are published as.
const ThumbnailType = "image/png"

// progressInterval throttles upload progress logging.
const progressInterval = 250 * time.Millisecond

// Env is everything a conversion run touches outside its arguments.
type Env struct {
	Fs      afero.Fs
	Cfg     *config.Instance
	Stdout  io.Writer
	Clock   clockwork.Clock
	DataDir string
}

// Outcome is what a run produced.
type Outcome struct {
	Opened    *mapfile.Result
	Report    *Report
	Published *publish.Result
	OutPath   string
}

func mapLimits(l config.Limits) mapfile.Limits {
	return mapfile.Limits{Warn: l.WarnMapSize, Max: l.MaxMapSize}
}

// Run opens the map at path, converting legacy data, writes the current
// format file and optionally reports on and publishes it.
func Run(ctx context.Context, env *Env, f *Flags, path string) (*Outcome, error) {
	limits := env.Cfg.Limits()

	res, err := mapfile.Open(ctx, env.Fs, path, mapLimits(limits))
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	out := &Outcome{Opened: res}

	if env.Cfg.VerifyReferences() {
		if err := refs.Verify(res.Map); err != nil {
			return nil, fmt.Errorf("map %s has dangling asset references: %w", path, err)
		}
	}

	if *f.Report {
		out.Report = BuildReport(res, ReportOptions{
			ImageTypes:   env.Cfg.UploadImageTypes(),
			SoundTypes:   env.Cfg.UploadSoundTypes(),
			MaxAssetSize: int(limits.MaxAssetSize),
		})
		if err := out.Report.Write(env.Stdout); err != nil {
			return nil, err
		}
	}

	out.OutPath = *f.Out
	if out.OutPath == "" {
		out.OutPath = mapfile.CurrentPath(path)
	}
	if err := mapfile.Save(env.Fs, out.OutPath, res.Map); err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(env.Stdout, "wrote %s (%d fields converted, %d assets)\n",
		out.OutPath, res.Converted, len(res.Map.Assets))

	if *f.Publish {
		published, err := publishLocal(ctx, env, res.Map, *f.Thumbnail, *f.NewID)
		if err != nil {
			return nil, err
		}
		out.Published = published
		_, _ = fmt.Fprintf(env.Stdout, "published %s as %s\n", published.Map.ID, published.MapKey)
	}

	return out, nil
}

func readThumbnail(env *Env, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := afero.ReadFile(env.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail: %w", err)
	}
	check, err := assets.ValidateUpload(
		models.Payload{MediaType: ThumbnailType, Data: data},
		[]string{ThumbnailType},
		int(env.Cfg.Limits().MaxAssetSize),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid thumbnail %s: %w", path, err)
	}
	if check.Oversized {
		log.Warn().Str("path", path).Int("size", len(data)).Msg("thumbnail is larger than the asset size limit")
	}
	return data, nil
}

// publishLocal stores the map in the object store and catalog under the
// data dir.
func publishLocal(
	ctx context.Context,
	env *Env,
	doc *models.Map,
	thumbnailPath string,
	newID bool,
) (*publish.Result, error) {
	thumbnail, err := readThumbnail(env, thumbnailPath)
	if err != nil {
		return nil, err
	}

	objects, err := objstore.OpenInDir(env.DataDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := objects.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close object store")
		}
	}()

	catalog, err := catalogdb.OpenCatalogDB(ctx, env.DataDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := catalog.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close catalog")
		}
	}()

	if err := objects.PutAssets(doc); err != nil {
		return nil, err
	}

	authorID, authorName := env.Cfg.PublishAuthor()
	throttle := &rate.Sometimes{First: 1, Interval: progressInterval}
	p := &publish.Publisher{
		Objects: objects,
		Catalog: catalog,
		Clock:   env.Clock,
		OnProgress: func(pr publish.Progress) {
			throttle.Do(func() {
				log.Debug().Str("key", pr.Key).Float64("progress", pr.Fraction()).Msg("uploading")
			})
		},
	}
	res, err := p.Publish(ctx, doc, thumbnail, publish.Options{
		Author: publish.Author{ID: authorID, Name: authorName},
		NewID:  newID,
		Public: env.Cfg.PublishPublic(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish map: %w", err)
	}
	return res, nil
}
