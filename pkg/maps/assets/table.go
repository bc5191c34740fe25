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

// Package assets interns binary payloads into a map's asset collection so
// identical content is stored once and referenced by ID.
package assets

import (
	"github.com/LevelImposter/lim-core/pkg/maps/ids"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
)

// LocatorScheme prefixes the runtime handle of every interned asset.
const LocatorScheme = "asset:"

// LocatorFor returns the default runtime handle of an asset, resolvable
// through the object store.
func LocatorFor(id models.GUID) string {
	return LocatorScheme + string(id)
}

// Materializer produces the payload for a key seen for the first time.
type Materializer func() (models.Payload, error)

type Option func(*Table)

// WithGenerator sets the identifier source for new assets.
func WithGenerator(gen ids.Generator) Option {
	return func(t *Table) {
		t.gen = gen
	}
}

// WithLocator sets how new assets get their runtime handle.
func WithLocator(locate func(models.GUID) string) Option {
	return func(t *Table) {
		t.locate = locate
	}
}

// WithReserved keeps the given IDs from ever being handed out to new
// assets, e.g. the IDs of a document's existing collection.
func WithReserved(reserved ...models.GUID) Option {
	return func(t *Table) {
		for _, id := range reserved {
			t.reserved[id] = struct{}{}
		}
	}
}

// Table is the interning state of one normalization run. It is not safe for
// concurrent use and has no removal: its lifetime is a single pass.
type Table struct {
	gen      ids.Generator
	locate   func(models.GUID) string
	byKey    map[string]models.GUID
	byUpload map[Signature]models.GUID
	byID     map[models.GUID]struct{}
	reserved map[models.GUID]struct{}
	assets   []*models.Asset
}

func NewTable(opts ...Option) *Table {
	t := &Table{
		gen:      ids.Default,
		locate:   LocatorFor,
		byKey:    make(map[string]models.GUID),
		byUpload: make(map[Signature]models.GUID),
		byID:     make(map[models.GUID]struct{}),
		reserved: make(map[models.GUID]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InternByKey returns the ID assigned to key, calling materialize only the
// first time key is seen. A materialize error is returned as is and leaves
// the table unchanged.
func (t *Table) InternByKey(key string, materialize Materializer) (models.GUID, error) {
	if id, ok := t.byKey[key]; ok {
		return id, nil
	}

	payload, err := materialize()
	if err != nil {
		return "", err
	}

	id := t.insert(payload)
	t.byKey[key] = id
	return id, nil
}

// InternUpload interns an already binary payload, keyed by its content
// signature. Distinct content never shares an asset. Signatures live apart
// from the string keys of InternByKey, so no field value can alias an
// upload.
func (t *Table) InternUpload(payload models.Payload) models.GUID {
	sig := Sign(payload)
	if id, ok := t.byUpload[sig]; ok {
		return id
	}
	id := t.insert(payload)
	t.byUpload[sig] = id
	return id
}

func (t *Table) insert(payload models.Payload) models.GUID {
	id := t.newID()
	t.add(&models.Asset{
		ID:      id,
		Locator: t.locate(id),
		Payload: payload,
	})
	return id
}

// Adopt records an existing asset under its own ID, keeping first-seen
// order. It reports false when the ID is already present.
func (t *Table) Adopt(a *models.Asset) bool {
	if _, ok := t.byID[a.ID]; ok {
		return false
	}
	adopted := *a
	if adopted.Locator == "" {
		adopted.Locator = t.locate(adopted.ID)
	}
	t.add(&adopted)
	return true
}

// Contains reports whether an asset with id has been interned or adopted.
func (t *Table) Contains(id models.GUID) bool {
	_, ok := t.byID[id]
	return ok
}

// Assets returns a snapshot of the interned assets in first-seen order.
func (t *Table) Assets() []*models.Asset {
	out := make([]*models.Asset, len(t.assets))
	copy(out, t.assets)
	return out
}

func (t *Table) Len() int {
	return len(t.assets)
}

func (t *Table) add(a *models.Asset) {
	t.assets = append(t.assets, a)
	t.byID[a.ID] = struct{}{}
}

// newID draws identifiers until one is free. Only a deterministic generator
// overlapping adopted or reserved IDs can ever loop here.
func (t *Table) newID() models.GUID {
	for {
		id := t.gen()
		_, taken := t.byID[id]
		_, reserved := t.reserved[id]
		if !taken && !reserved {
			return id
		}
	}
}
