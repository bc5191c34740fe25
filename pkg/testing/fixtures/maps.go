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

package fixtures

import (
	"encoding/json"
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/maps/datauri"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"pgregory.net/rapid"
)

// Common test map fixtures for use in tests

const (
	// PNGHeaderURI is the 8 byte PNG signature as a data URI.
	PNGHeaderURI = "data:image/png;base64,iVBORw0KGgo="
	// ShortWavURI is two zero bytes declared as WAV.
	ShortWavURI = "data:audio/wav;base64,AAA="
	// OggURI is a sound the game cannot play.
	OggURI = "data:audio/ogg;base64,T2dnUw=="
	// MinigameURI is a second, distinct sprite.
	MinigameURI = "data:image/png;base64,AQIDBA=="
	PresetName  = "preset-x"
	MapID       = "3f2c7d8e-1b6a-4c1e-9d2f-0a1b2c3d4e5f"
	AuthorID    = "author-uid"
)

func ptr[T any](v T) *T {
	return &v
}

// NewSpriteElement creates a decoration element with an embedded sprite.
func NewSpriteElement(id models.GUID, uri string) *models.Element {
	return &models.Element{
		ID:     id,
		Name:   "Decoration",
		Type:   "util-blank",
		XScale: 1,
		YScale: 1,
		Properties: models.Properties{
			Sprite: models.EmbeddedRef(uri),
			Extra: map[string]json.RawMessage{
				"isLocked": json.RawMessage(`false`),
			},
		},
	}
}

// NewSoundElement creates a step sound element with the given variants.
func NewSoundElement(id models.GUID, sounds ...*models.Sound) *models.Element {
	return &models.Element{
		ID:     id,
		Name:   "Step Sound",
		Type:   "util-sound2",
		XScale: 1,
		YScale: 1,
		Properties: models.Properties{
			Sounds: sounds,
		},
	}
}

// NewLegacySound creates a sound variant holding inline data.
func NewLegacySound(id models.GUID, data string, isPreset bool) *models.Sound {
	return &models.Sound{
		ID:       id,
		Source:   models.EmbeddedSound(data),
		IsPreset: isPreset,
		Volume:   ptr(0.5),
	}
}

// NewMinigameElement creates a task element with sprite overrides.
func NewMinigameElement(id models.GUID, minigames ...*models.Minigame) *models.Element {
	return &models.Element{
		ID:     id,
		Name:   "Fuel Task",
		Type:   "task-fuel1",
		X:      4,
		Y:      -2,
		XScale: 1,
		YScale: 1,
		Properties: models.Properties{
			Minigames: minigames,
			Extra: map[string]json.RawMessage{
				"description": json.RawMessage(`"Fuel Engines"`),
			},
		},
	}
}

// NewLegacyMinigame creates a minigame override holding an inline sprite.
func NewLegacyMinigame(id models.GUID, uri string) *models.Minigame {
	return &models.Minigame{
		ID:     id,
		Type:   "fuel-bg",
		Sprite: models.EmbeddedRef(uri),
	}
}

// NewPlainElement creates an element with nothing to convert.
func NewPlainElement(id models.GUID) *models.Element {
	return &models.Element{
		ID:     id,
		Name:   "Vent",
		Type:   "util-vent1",
		X:      10,
		Y:      3,
		XScale: 1,
		YScale: 1,
		Properties: models.Properties{
			Extra: map[string]json.RawMessage{
				"leftVent":  json.RawMessage(`"5b3c1b3e-0000-4000-8000-000000000001"`),
				"colliders": json.RawMessage(`[{"id":"c1","isSolid":true,"points":[{"x":0,"y":0},{"x":1,"y":1}]}]`),
			},
		},
	}
}

// NewLegacyMap creates a legacy map touching every convertible field:
// a sprite shared by two elements, an embedded sound, a preset sound and a
// minigame sprite.
func NewLegacyMap() *models.Map {
	return &models.Map{
		ID:          MapID,
		Name:        "Skeld Remix",
		Description: "A legacy map",
		AuthorID:    AuthorID,
		AuthorName:  "Author",
		IsPublic:    true,
		Elements: []*models.Element{
			NewSpriteElement("e1", PNGHeaderURI),
			NewSoundElement("e2",
				NewLegacySound("s1", ShortWavURI, false),
				NewLegacySound("s2", PresetName, true),
			),
			NewMinigameElement("e3", NewLegacyMinigame("m1", MinigameURI)),
			NewSpriteElement("e4", PNGHeaderURI),
			NewPlainElement("e5"),
		},
	}
}

// LegacyMapJSON is a legacy .lim file as the old editor wrote it.
const LegacyMapJSON = `{
  "id": "` + MapID + `",
  "v": 0,
  "name": "Skeld Remix",
  "description": "A legacy map",
  "isPublic": true,
  "isVerified": false,
  "authorID": "` + AuthorID + `",
  "authorName": "Author",
  "createdAt": 1672531200000,
  "likeCount": 3,
  "thumbnailURL": null,
  "properties": {"bgColor":"#000000"},
  "elements": [
    {
      "id": "e1", "name": "Decoration", "type": "util-blank",
      "x": 0, "y": 0, "z": 0, "xScale": 1, "yScale": 1, "rotation": 0,
      "properties": {"spriteData": "` + PNGHeaderURI + `", "isLocked": false}
    },
    {
      "id": "e2", "name": "Step Sound", "type": "util-sound2",
      "x": 1, "y": 1, "z": 0, "xScale": 1, "yScale": 1, "rotation": 0,
      "properties": {
        "soundPriority": 10,
        "sounds": [
          {"id": "s1", "data": "` + ShortWavURI + `", "isPreset": false, "volume": 0.5},
          {"id": "s2", "data": "` + PresetName + `", "isPreset": true, "volume": 0.5}
        ]
      }
    },
    {
      "id": "e3", "name": "Fuel Task", "type": "task-fuel1",
      "x": 4, "y": -2, "z": 0, "xScale": 1, "yScale": 1, "rotation": 90,
      "properties": {
        "description": "Fuel Engines",
        "minigames": [{"id": "m1", "type": "fuel-bg", "spriteData": "` + MinigameURI + `"}]
      }
    },
    {
      "id": "e4", "name": "Decoration", "type": "util-blank",
      "x": 2, "y": 0, "z": 0, "xScale": 1, "yScale": 1, "rotation": 0,
      "properties": {"spriteData": "` + PNGHeaderURI + `"}
    }
  ]
}`

var spritePool = []string{
	PNGHeaderURI,
	MinigameURI,
	// same bytes as MinigameURI under another header: a distinct asset
	"data:image/x-png;base64,AQIDBA==",
	datauri.Encode("image/png", []byte{0, 0, 0}),
}

var soundPool = []string{
	ShortWavURI,
	OggURI,
	datauri.Encode("audio/wav", []byte{1, 2, 3, 4, 5}),
}

// DrawLegacyMap generates an arbitrary valid legacy map for property tests.
// Every inline field decodes successfully.
func DrawLegacyMap(t *rapid.T) *models.Map {
	n := rapid.IntRange(0, 12).Draw(t, "elements")
	doc := &models.Map{ID: MapID, Name: "generated"}
	for i := range n {
		id := models.GUID(rapid.StringMatching(`e[0-9]{1,3}`).Draw(t, "elementID"))
		e := &models.Element{ID: id, Type: "util-blank"}
		if i%2 == 0 || rapid.Bool().Draw(t, "hasSprite") {
			e.Properties.Sprite = models.EmbeddedRef(rapid.SampledFrom(spritePool).Draw(t, "sprite"))
		}
		for j := range rapid.IntRange(0, 3).Draw(t, "sounds") {
			s := &models.Sound{ID: models.GUID(fmt.Sprintf("%s-s%d", id, j))}
			switch rapid.IntRange(0, 2).Draw(t, "soundKind") {
			case 0:
				s.Source = models.EmbeddedSound(rapid.SampledFrom(soundPool).Draw(t, "sound"))
			case 1:
				s.IsPreset = true
				s.Source = models.EmbeddedSound(rapid.StringMatching(`preset-[a-z]{1,4}`).Draw(t, "preset"))
			}
			e.Properties.Sounds = append(e.Properties.Sounds, s)
		}
		for j := range rapid.IntRange(0, 2).Draw(t, "minigames") {
			mg := &models.Minigame{ID: models.GUID(fmt.Sprintf("%s-m%d", id, j)), Type: "bg"}
			if rapid.Bool().Draw(t, "hasMinigameSprite") {
				mg.Sprite = models.EmbeddedRef(rapid.SampledFrom(spritePool).Draw(t, "minigameSprite"))
			}
			e.Properties.Minigames = append(e.Properties.Minigames, mg)
		}
		doc.Elements = append(doc.Elements, e)
	}
	return doc
}

// DrawMixedMap generates a partly normalized map: legacy fields mixed with
// spriteID and dataID references, an existing collection holding stale
// entries and duplicate IDs, and references to IDs no asset carries. Some
// existing and dangling IDs share the "asset-" shape sequential generators
// produce, so new IDs can collide with them unless the caller avoids it.
func DrawMixedMap(t *rapid.T) *models.Map {
	doc := DrawLegacyMap(t)

	existing := rapid.SliceOfN(rapid.StringMatching(`(asset|old)-[1-6]`), 0, 6).Draw(t, "existing")
	for i, id := range existing {
		doc.Assets = append(doc.Assets, &models.Asset{
			ID: models.GUID(id),
			Payload: models.Payload{
				MediaType: rapid.SampledFrom([]string{"image/png", "audio/wav"}).Draw(t, "existingType"),
				Data:      []byte(fmt.Sprintf("existing-%d", i)),
			},
		})
	}

	ref := func(label string) (models.GUID, bool) {
		switch rapid.IntRange(0, 3).Draw(t, label) {
		case 0:
			if len(existing) > 0 {
				return models.GUID(rapid.SampledFrom(existing).Draw(t, label+"Existing")), true
			}
		case 1:
			id := rapid.SampledFrom([]string{"gone-a", "gone-b", "asset-7", "asset-8"}).
				Draw(t, label+"Dangling")
			return models.GUID(id), true
		}
		return "", false
	}

	for _, e := range doc.Elements {
		if e.Properties.Sprite.IsZero() {
			if id, ok := ref("spriteRef"); ok {
				e.Properties.Sprite = models.IDRef(id)
			}
		}
		for _, s := range e.Properties.Sounds {
			if s.Source.Kind() == models.SourceNone {
				if id, ok := ref("soundRef"); ok {
					s.Source = models.AssetSound(id)
				}
			}
		}
		for _, mg := range e.Properties.Minigames {
			if mg.Sprite.IsZero() {
				if id, ok := ref("minigameRef"); ok {
					mg.Sprite = models.IDRef(id)
				}
			}
		}
	}
	return doc
}
