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

package models

import (
	"encoding/json"
	"maps"
	"slices"
)

// Clone returns a deep copy of the document. Raw JSON values and asset
// payload bytes are shared since nothing in this module mutates them.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := *m
	c.Extra = cloneExtra(m.Extra)
	if m.ThumbnailURL != nil {
		u := *m.ThumbnailURL
		c.ThumbnailURL = &u
	}
	if m.Elements != nil {
		c.Elements = make([]*Element, len(m.Elements))
		for i, e := range m.Elements {
			c.Elements[i] = e.Clone()
		}
	}
	if m.Assets != nil {
		c.Assets = make([]*Asset, len(m.Assets))
		for i, a := range m.Assets {
			if a == nil {
				continue
			}
			ac := *a
			c.Assets[i] = &ac
		}
	}
	return &c
}

func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	c.Extra = cloneExtra(e.Extra)
	c.Properties = e.Properties.Clone()
	return &c
}

func (p Properties) Clone() Properties {
	c := p
	c.Extra = cloneExtra(p.Extra)
	if p.Sounds != nil {
		c.Sounds = make([]*Sound, len(p.Sounds))
		for i, s := range p.Sounds {
			if s == nil {
				continue
			}
			sc := *s
			sc.Extra = cloneExtra(s.Extra)
			if s.Volume != nil {
				v := *s.Volume
				sc.Volume = &v
			}
			c.Sounds[i] = &sc
		}
	}
	if p.Minigames != nil {
		c.Minigames = make([]*Minigame, len(p.Minigames))
		for i, mg := range p.Minigames {
			if mg == nil {
				continue
			}
			mc := *mg
			mc.Extra = cloneExtra(mg.Extra)
			c.Minigames[i] = &mc
		}
	}
	return c
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	return maps.Clone(extra)
}

// AssetIDs returns the IDs of the asset collection in stored order.
func (m *Map) AssetIDs() []GUID {
	ids := make([]GUID, 0, len(m.Assets))
	for _, a := range m.Assets {
		if a == nil {
			continue
		}
		ids = append(ids, a.ID)
	}
	return slices.Clip(ids)
}
