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

// Package publish uploads a normalized map and its thumbnail to an object
// store and records its metadata in the map catalog.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/helpers/syncutil"
	"github.com/LevelImposter/lim-core/pkg/maps/ids"
	"github.com/LevelImposter/lim-core/pkg/maps/mapfile"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/normalize"
	"github.com/LevelImposter/lim-core/pkg/maps/refs"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNilMap = errors.New("nil map document")
	// ErrNotNormalized is returned for documents that still embed data.
	ErrNotNormalized = errors.New("map is not normalized")
)

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, progress database.ProgressFunc) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type Catalog interface {
	PutMap(ctx context.Context, entry *database.MapEntry) error
	GetMap(ctx context.Context, id string) (*database.MapEntry, error)
}

// Author is the signed-in user a map is published as.
type Author struct {
	ID   string
	Name string
}

type Options struct {
	Author Author
	// NewID publishes under a fresh map ID instead of replacing the
	// document's current entry.
	NewID  bool
	Public bool
}

// Progress reports upload progress over every object of one publish.
type Progress struct {
	Key   string
	Done  int64
	Total int64
}

// Fraction is the overall completion between 0 and 1.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// Result is what a publish stored.
type Result struct {
	Map      *models.Map
	Metadata *Metadata
	MapKey   string
	ThumbKey string
}

type Publisher struct {
	Objects ObjectStore
	Catalog Catalog
	Clock   clockwork.Clock
	IDs     ids.Generator
	// OnProgress is called from upload goroutines, one call at a time.
	OnProgress func(Progress)
}

func MapKey(authorID string, id models.GUID) string {
	return fmt.Sprintf("maps/%s/%s%s", authorID, id, mapfile.ExtCurrent)
}

func ThumbnailKey(authorID string, id models.GUID) string {
	return fmt.Sprintf("maps/%s/%s.png", authorID, id)
}

func (p *Publisher) clock() clockwork.Clock {
	if p.Clock == nil {
		return clockwork.NewRealClock()
	}
	return p.Clock
}

func (p *Publisher) newID() models.GUID {
	if p.IDs == nil {
		return ids.New()
	}
	return p.IDs()
}

// Publish stores doc and, when thumbnail is not empty, its thumbnail. The
// document must be normalized and every reference must resolve. Both
// objects are uploaded concurrently; the catalog is only written once both
// uploads succeed. doc itself is never modified.
func (p *Publisher) Publish(
	ctx context.Context,
	doc *models.Map,
	thumbnail []byte,
	opts Options,
) (*Result, error) {
	if doc == nil {
		return nil, ErrNilMap
	}
	if legacy := refs.LegacyFields(doc); len(legacy) > 0 {
		return nil, fmt.Errorf("%w: %d fields hold embedded data", ErrNotNormalized, len(legacy))
	}
	if err := refs.Verify(doc); err != nil {
		return nil, fmt.Errorf("failed to verify asset references: %w", err)
	}

	out := doc.Clone()
	if opts.NewID || out.ID == "" {
		out.ID = p.newID()
	}
	out.IsPublic = opts.Public

	meta, err := BuildMetadata(out, opts.Author, p.clock())
	if err != nil {
		return nil, fmt.Errorf("invalid map metadata: %w", err)
	}

	mapKey := MapKey(meta.AuthorID, out.ID)
	var thumbKey string
	if len(thumbnail) > 0 {
		thumbKey = ThumbnailKey(meta.AuthorID, out.ID)
		meta.ThumbnailURL = &thumbKey
	} else {
		meta.ThumbnailURL = nil
	}
	meta.ApplyTo(out)

	data, err := mapfile.Encode(out)
	if err != nil {
		return nil, err
	}

	if err := p.upload(ctx, mapKey, data, thumbKey, thumbnail); err != nil {
		return nil, err
	}

	entry := meta.Entry(mapKey)
	if err := p.Catalog.PutMap(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write catalog entry: %w", err)
	}

	log.Info().
		Str("map", string(out.ID)).
		Str("author", opts.Author.ID).
		Int("assets", len(out.Assets)).
		Msg("published map")
	return &Result{Map: out, Metadata: meta, MapKey: mapKey, ThumbKey: thumbKey}, nil
}

func (p *Publisher) upload(ctx context.Context, mapKey string, data []byte, thumbKey string, thumbnail []byte) error {
	tracker := newTracker(p.OnProgress)
	tracker.expect(mapKey, int64(len(data)))
	if thumbKey != "" {
		tracker.expect(thumbKey, int64(len(thumbnail)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.Objects.Put(gctx, mapKey, data, tracker.report(mapKey)); err != nil {
			return fmt.Errorf("failed to upload map: %w", err)
		}
		log.Debug().Str("key", mapKey).Msg("map uploaded")
		return nil
	})
	if thumbKey != "" {
		g.Go(func() error {
			if err := p.Objects.Put(gctx, thumbKey, thumbnail, tracker.report(thumbKey)); err != nil {
				return fmt.Errorf("failed to upload thumbnail: %w", err)
			}
			log.Debug().Str("key", thumbKey).Msg("thumbnail uploaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("key", mapKey).Msg("publish upload failed")
		return err //nolint:wrapcheck // already wrapped per upload
	}
	return nil
}

// Fetch loads a published map back from the catalog and object store.
func (p *Publisher) Fetch(ctx context.Context, id models.GUID) (*models.Map, *database.MapEntry, error) {
	entry, err := p.Catalog.GetMap(ctx, string(id))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up map: %w", err)
	}
	data, err := p.Objects.Get(ctx, entry.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download map: %w", err)
	}
	doc, err := mapfile.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	doc, err = normalize.Normalize(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to normalize published map: %w", err)
	}
	return doc, entry, nil
}

// tracker folds per-object progress into one running total.
type tracker struct {
	fn     func(Progress)
	done   map[string]int64
	totals map[string]int64
	mu     syncutil.Mutex
}

func newTracker(fn func(Progress)) *tracker {
	return &tracker{
		fn:     fn,
		done:   make(map[string]int64),
		totals: make(map[string]int64),
	}
}

func (t *tracker) expect(key string, size int64) {
	t.totals[key] = size
}

func (t *tracker) report(key string) database.ProgressFunc {
	if t.fn == nil {
		return nil
	}
	return func(done, _ int64) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.done[key] = done
		var sum, total int64
		for _, v := range t.done {
			sum += v
		}
		for _, v := range t.totals {
			total += v
		}
		t.fn(Progress{Key: key, Done: sum, Total: total})
	}
}
