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

// Package refs inspects the asset references of a map document: usage
// counts, dangling references, unused assets and leftover legacy data.
package refs

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/LevelImposter/lim-core/pkg/maps/datauri"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
)

// WavMediaType is the only sound format the game plays back.
const WavMediaType = "audio/wav"

// Ref is one ID reference from an element field to an asset.
type Ref struct {
	ElementID models.GUID
	Path      string
	AssetID   models.GUID
}

// Field is an element field that still holds legacy inline data.
type Field struct {
	ElementID models.GUID
	Path      string
}

// MissingAssetError reports a reference to an asset the document does not
// contain.
type MissingAssetError struct {
	Ref
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("element %s %s references missing asset %s", e.ElementID, e.Path, e.AssetID)
}

// each calls fn for every element with its non-nil sounds and minigames.
// assetsOf yields the non-nil assets of doc.
func assetsOf(doc *models.Map) []*models.Asset {
	if !slices.Contains(doc.Assets, nil) {
		return doc.Assets
	}
	out := make([]*models.Asset, 0, len(doc.Assets))
	for _, a := range doc.Assets {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

func each(doc *models.Map, fn func(e *models.Element)) {
	for _, e := range doc.Elements {
		if e != nil {
			fn(e)
		}
	}
}

// Collect returns every ID reference in the order the normalizer visits
// fields: sprite, then sounds, then minigame sprites, element by element.
func Collect(doc *models.Map) []Ref {
	var out []Ref
	each(doc, func(e *models.Element) {
		if id, ok := e.Properties.Sprite.ID(); ok {
			out = append(out, Ref{ElementID: e.ID, Path: "properties.spriteID", AssetID: id})
		}
		for i, s := range e.Properties.Sounds {
			if s == nil {
				continue
			}
			if id, ok := s.Source.AssetID(); ok {
				out = append(out, Ref{
					ElementID: e.ID,
					Path:      fmt.Sprintf("properties.sounds[%d].dataID", i),
					AssetID:   id,
				})
			}
		}
		for i, mg := range e.Properties.Minigames {
			if mg == nil {
				continue
			}
			if id, ok := mg.Sprite.ID(); ok {
				out = append(out, Ref{
					ElementID: e.ID,
					Path:      fmt.Sprintf("properties.minigames[%d].spriteID", i),
					AssetID:   id,
				})
			}
		}
	})
	return out
}

// Counts returns how many fields reference each asset of the collection.
// Unused assets are present with a count of zero.
func Counts(doc *models.Map) map[models.GUID]int {
	counts := make(map[models.GUID]int, len(doc.Assets))
	for _, a := range assetsOf(doc) {
		counts[a.ID] = 0
	}
	for _, r := range Collect(doc) {
		if _, ok := counts[r.AssetID]; ok {
			counts[r.AssetID]++
		}
	}
	return counts
}

// Verify checks that every reference resolves to an asset. All failures are
// joined into the returned error.
func Verify(doc *models.Map) error {
	have := make(map[models.GUID]struct{}, len(doc.Assets))
	for _, a := range assetsOf(doc) {
		have[a.ID] = struct{}{}
	}
	var errs []error
	for _, r := range Collect(doc) {
		if _, ok := have[r.AssetID]; !ok {
			errs = append(errs, &MissingAssetError{Ref: r})
		}
	}
	return errors.Join(errs...)
}

// Unreferenced returns the IDs of assets no field points at, in collection
// order.
func Unreferenced(doc *models.Map) []models.GUID {
	counts := Counts(doc)
	var out []models.GUID
	for _, a := range assetsOf(doc) {
		if counts[a.ID] == 0 {
			out = append(out, a.ID)
		}
	}
	return out
}

// Prune drops unreferenced assets from doc and returns how many went.
func Prune(doc *models.Map) int {
	counts := Counts(doc)
	kept := doc.Assets[:0]
	removed := 0
	for _, a := range doc.Assets {
		if a == nil {
			continue
		}
		if counts[a.ID] == 0 {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	clear(doc.Assets[len(kept):])
	doc.Assets = kept
	return removed
}

// LegacyFields lists the fields that still carry inline data, i.e. what a
// normalization pass would rewrite.
func LegacyFields(doc *models.Map) []Field {
	var out []Field
	each(doc, func(e *models.Element) {
		if _, ok := e.Properties.Sprite.Embedded(); ok {
			out = append(out, Field{ElementID: e.ID, Path: "properties.spriteData"})
		}
		for i, s := range e.Properties.Sounds {
			if s != nil && s.Source.Kind() == models.SourceEmbedded {
				out = append(out, Field{ElementID: e.ID, Path: fmt.Sprintf("properties.sounds[%d].data", i)})
			}
		}
		for i, mg := range e.Properties.Minigames {
			if mg == nil {
				continue
			}
			if _, ok := mg.Sprite.Embedded(); ok {
				out = append(out, Field{ElementID: e.ID, Path: fmt.Sprintf("properties.minigames[%d].spriteData", i)})
			}
		}
	})
	return out
}

// NonWavSounds lists non-preset sounds whose content is known and is not WAV.
// Empty sound slots are not reported.
func NonWavSounds(doc *models.Map) []Field {
	var out []Field
	each(doc, func(e *models.Element) {
		for i, s := range e.Properties.Sounds {
			if s == nil || s.IsPreset {
				continue
			}
			mediaType, known := soundType(doc, s)
			if known && mediaType != WavMediaType {
				out = append(out, Field{ElementID: e.ID, Path: fmt.Sprintf("properties.sounds[%d]", i)})
			}
		}
	})
	return out
}

func soundType(doc *models.Map, s *models.Sound) (string, bool) {
	switch s.Source.Kind() {
	case models.SourceEmbedded:
		mediaType, err := datauri.MediaType(s.Source.Value())
		if err != nil {
			return "", true
		}
		return strings.ToLower(mediaType), true
	case models.SourceAsset:
		id, _ := s.Source.AssetID()
		if a := doc.AssetByID(id); a != nil {
			return strings.ToLower(a.MediaType), true
		}
		return "", false
	case models.SourceNone, models.SourcePreset:
	}
	return "", false
}
