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

// Package models defines the map document shape shared by the legacy (.lim)
// and current (.lim2) map files.
package models

import "encoding/json"

// CurrentVersion is the newest map format version this module understands.
const CurrentVersion = 1

// GUID identifies elements, sounds, minigames and assets.
type GUID string

// Map is a map document: an ordered element list plus the asset collection
// its elements reference by ID.
type Map struct {
	ThumbnailURL *string                    `json:"thumbnailURL"`
	Extra        map[string]json.RawMessage `json:"-"`
	ID           GUID                       `json:"id"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	AuthorID     string                     `json:"authorID"`
	AuthorName   string                     `json:"authorName"`
	Properties   json.RawMessage            `json:"properties,omitempty"`
	Elements     []*Element                 `json:"elements"`
	Assets       []*Asset                   `json:"assets,omitempty"`
	CreatedAt    int64                      `json:"createdAt"`
	V            int                        `json:"v"`
	LikeCount    int                        `json:"likeCount"`
	IsPublic     bool                       `json:"isPublic"`
	IsVerified   bool                       `json:"isVerified"`
}

// Element is a single placed object. Type selects its behaviour in game
// (e.g. "task-fuel1", "util-sound2", "util-triggerarea").
type Element struct {
	Extra      map[string]json.RawMessage `json:"-"`
	ID         GUID                       `json:"id"`
	Name       string                     `json:"name"`
	Type       string                     `json:"type"`
	Properties Properties                 `json:"properties"`
	X          float64                    `json:"x"`
	Y          float64                    `json:"y"`
	Z          float64                    `json:"z"`
	XScale     float64                    `json:"xScale"`
	YScale     float64                    `json:"yScale"`
	Rotation   float64                    `json:"rotation"`
}

// Properties is the per-element property bag. Only the fields that can
// carry binary data are typed, everything else is kept verbatim in Extra.
type Properties struct {
	Extra     map[string]json.RawMessage
	Sprite    AssetRef
	Sounds    []*Sound
	Minigames []*Minigame
}

// Sound is one variant of an element's sound list.
type Sound struct {
	Volume   *float64
	Extra    map[string]json.RawMessage
	ID       GUID
	Source   SoundSource
	IsPreset bool
}

// Minigame is a per-minigame sprite override of an element.
type Minigame struct {
	Extra  map[string]json.RawMessage
	ID     GUID
	Type   string
	Sprite AssetRef
}

// Payload is binary asset content with its declared media type.
type Payload struct {
	MediaType string `json:"type"`
	Data      []byte `json:"data"`
}

// Asset is a stored binary referenced by ID from elements. Locator is a
// runtime handle for retrieval and is never serialized.
type Asset struct {
	ID      GUID   `json:"id"`
	Locator string `json:"-"`
	Payload
}

// Size returns the payload length in bytes.
func (a *Asset) Size() int {
	return len(a.Data)
}

// AssetByID returns the asset with the given ID, or nil.
func (m *Map) AssetByID(id GUID) *Asset {
	for _, a := range m.Assets {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}
