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

package normalize

import (
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/maps/assets"
	"github.com/LevelImposter/lim-core/pkg/maps/datauri"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/rs/zerolog/log"
)

const (
	pathSprite       = "properties.spriteData"
	pathSpriteID     = "properties.spriteID"
	pathSoundData    = "properties.sounds[%d].data"
	pathSoundDataID  = "properties.sounds[%d].dataID"
	pathMinigame     = "properties.minigames[%d].spriteData"
	pathMinigameID   = "properties.minigames[%d].spriteID"
	logFieldElement  = "element"
	logFieldSound    = "sound"
	logFieldMinigame = "minigame"
)

// Stats counts what a walk converted.
type Stats struct {
	Sprites   int
	Sounds    int
	Presets   int
	Minigames int
	// Dangling counts ID references with no matching asset.
	Dangling int
}

// Converted is the number of legacy fields rewritten.
func (s Stats) Converted() int {
	return s.Sprites + s.Sounds + s.Presets + s.Minigames
}

// Walker rewrites the legacy fields of elements in place, interning their
// data into a Table. Fields are visited in a fixed order so output is
// reproducible: the sprite, then sounds in order, then minigames in order.
type Walker struct {
	table    *assets.Table
	existing map[models.GUID]*models.Asset
	stats    Stats
}

// NewWalker returns a Walker interning into table. existing is the asset
// collection the document arrived with; assets it references by ID are
// adopted into the table as they are met.
func NewWalker(table *assets.Table, existing []*models.Asset) *Walker {
	byID := make(map[models.GUID]*models.Asset, len(existing))
	for _, a := range existing {
		if a == nil {
			continue
		}
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
		}
	}
	return &Walker{table: table, existing: byID}
}

func (w *Walker) Stats() Stats {
	return w.stats
}

// Walk converts every legacy field of e. On error e may be partially
// rewritten; callers are expected to discard it.
func (w *Walker) Walk(e *models.Element) error {
	props := &e.Properties

	if uri, ok := props.Sprite.Embedded(); ok {
		log.Debug().Str(logFieldElement, string(e.ID)).Msg("converting sprite data")
		id, err := w.intern(uri)
		if err != nil {
			return &ConversionError{ElementID: e.ID, Path: pathSprite, Err: err}
		}
		props.Sprite = models.IDRef(id)
		w.stats.Sprites++
	} else if id, ok := props.Sprite.ID(); ok {
		w.adopt(e.ID, pathSpriteID, id)
	}

	for i, sound := range props.Sounds {
		if sound == nil {
			continue
		}
		switch sound.Source.Kind() {
		case models.SourceEmbedded:
			data := sound.Source.Value()
			if sound.IsPreset {
				log.Debug().Str(logFieldSound, string(sound.ID)).Msg("moving sound preset")
				sound.Source = models.PresetSound(data)
				w.stats.Presets++
				continue
			}
			log.Debug().Str(logFieldSound, string(sound.ID)).Msg("converting sound data")
			id, err := w.intern(data)
			if err != nil {
				return &ConversionError{ElementID: e.ID, Path: fmt.Sprintf(pathSoundData, i), Err: err}
			}
			sound.Source = models.AssetSound(id)
			w.stats.Sounds++
		case models.SourceAsset:
			id, _ := sound.Source.AssetID()
			w.adopt(e.ID, fmt.Sprintf(pathSoundDataID, i), id)
		case models.SourceNone, models.SourcePreset:
		}
	}

	for i, mg := range props.Minigames {
		if mg == nil {
			continue
		}
		if uri, ok := mg.Sprite.Embedded(); ok {
			log.Debug().Str(logFieldMinigame, string(mg.ID)).Msg("converting minigame sprite")
			id, err := w.intern(uri)
			if err != nil {
				return &ConversionError{ElementID: e.ID, Path: fmt.Sprintf(pathMinigame, i), Err: err}
			}
			mg.Sprite = models.IDRef(id)
			w.stats.Minigames++
		} else if id, ok := mg.Sprite.ID(); ok {
			w.adopt(e.ID, fmt.Sprintf(pathMinigameID, i), id)
		}
	}

	return nil
}

// intern keys on the exact data URI string: equal strings share an asset,
// different strings never do, even if they decode to the same bytes.
func (w *Walker) intern(uri string) (models.GUID, error) {
	return w.table.InternByKey(uri, func() (models.Payload, error) {
		mediaType, data, err := datauri.Decode(uri)
		if err != nil {
			return models.Payload{}, err
		}
		return models.Payload{MediaType: mediaType, Data: data}, nil
	})
}

func (w *Walker) adopt(elementID models.GUID, path string, id models.GUID) {
	if w.table.Contains(id) {
		return
	}
	if a, ok := w.existing[id]; ok {
		w.table.Adopt(a)
		return
	}
	w.stats.Dangling++
	log.Warn().
		Str(logFieldElement, string(elementID)).
		Str("path", path).
		Str("asset", string(id)).
		Msg("reference to missing asset")
}
