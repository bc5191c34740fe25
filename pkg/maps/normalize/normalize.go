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

// Package normalize converts map documents into the normalized shape: every
// embedded asset moved into the top-level collection, deduplicated and
// referenced by ID.
package normalize

import (
	"github.com/LevelImposter/lim-core/pkg/maps/assets"
	"github.com/LevelImposter/lim-core/pkg/maps/ids"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/refs"
	"github.com/rs/zerolog/log"
)

type Option func(*Normalizer)

// WithGenerator sets the identifier source for new assets.
func WithGenerator(gen ids.Generator) Option {
	return func(n *Normalizer) {
		n.gen = gen
	}
}

// WithLocator sets how new assets get their runtime handle.
func WithLocator(locate func(models.GUID) string) Option {
	return func(n *Normalizer) {
		n.locate = locate
	}
}

// Normalizer holds configuration only. Each call gets its own interning
// table, so one Normalizer may serve any number of documents.
type Normalizer struct {
	gen    ids.Generator
	locate func(models.GUID) string
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		gen:    ids.Default,
		locate: assets.LocatorFor,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Result is a normalized document and what it took to get there.
type Result struct {
	Map   *models.Map
	Stats Stats
}

// Run normalizes a copy of doc. The input is never modified; on error no
// document is returned.
func (n *Normalizer) Run(doc *models.Map) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	out := doc.Clone()
	table := assets.NewTable(
		assets.WithGenerator(n.gen),
		assets.WithLocator(n.locate),
		assets.WithReserved(out.AssetIDs()...),
		assets.WithReserved(claimedIDs(out)...),
	)
	walker := NewWalker(table, out.Assets)

	for _, e := range out.Elements {
		if e == nil {
			continue
		}
		if err := walker.Walk(e); err != nil {
			log.Error().Err(err).Str("map", string(doc.ID)).Msg("map conversion failed")
			return nil, err
		}
	}

	out.Assets = table.Assets()
	if out.V < models.CurrentVersion {
		out.V = models.CurrentVersion
	}

	stats := walker.Stats()
	log.Info().
		Str("map", string(out.ID)).
		Int("elements", len(out.Elements)).
		Int("assets", len(out.Assets)).
		Int("converted", stats.Converted()).
		Msg("normalized map")

	return &Result{Map: out, Stats: stats}, nil
}

// claimedIDs lists every ID a field already points at, dangling or not.
// New assets must never take one of them over.
func claimedIDs(doc *models.Map) []models.GUID {
	collected := refs.Collect(doc)
	out := make([]models.GUID, 0, len(collected))
	for _, r := range collected {
		out = append(out, r.AssetID)
	}
	return out
}

// Normalize returns the normalized copy of doc.
func (n *Normalizer) Normalize(doc *models.Map) (*models.Map, error) {
	res, err := n.Run(doc)
	if err != nil {
		return nil, err
	}
	return res.Map, nil
}

// Normalize normalizes doc with default options.
func Normalize(doc *models.Map) (*models.Map, error) {
	return New().Normalize(doc)
}
