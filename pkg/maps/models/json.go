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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrConflictingFields is returned when a document sets both halves of a
// data/ID pair, e.g. spriteData and spriteID on the same element.
var ErrConflictingFields = errors.New("conflicting asset fields")

var (
	mapKeys = []string{
		"id", "v", "name", "description", "isPublic", "isVerified", "authorID",
		"authorName", "createdAt", "likeCount", "elements", "properties",
		"thumbnailURL", "assets",
	}
	elementKeys = []string{
		"id", "name", "type", "x", "y", "z", "xScale", "yScale", "rotation",
		"properties",
	}
)

// fields is a decoded JSON object whose known keys are consumed one by one,
// leaving only the unknown ones behind.
type fields map[string]json.RawMessage

func decodeFields(b []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	if f == nil {
		f = fields{}
	}
	return f, nil
}

// take decodes key into dst and removes it. JSON null counts as absent.
func (f fields) take(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok {
		return false, nil
	}
	delete(f, key)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("invalid %q: %w", key, err)
	}
	return true, nil
}

func (f fields) put(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}
	f[key] = b
	return nil
}

// rest returns the unconsumed keys, or nil when none are left.
func (f fields) rest() map[string]json.RawMessage {
	if len(f) == 0 {
		return nil
	}
	return f
}

func withExtra(extra map[string]json.RawMessage) fields {
	f := make(fields, len(extra)+8)
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func pickString(f fields, key string) (string, error) {
	var s string
	if _, err := f.take(key, &s); err != nil {
		return "", err
	}
	return s, nil
}

func assetRefFrom(f fields, dataKey, idKey string) (AssetRef, error) {
	data, err := pickString(f, dataKey)
	if err != nil {
		return AssetRef{}, err
	}
	id, err := pickString(f, idKey)
	if err != nil {
		return AssetRef{}, err
	}
	if data != "" && id != "" {
		return AssetRef{}, fmt.Errorf("%w: %s and %s", ErrConflictingFields, dataKey, idKey)
	}
	if id != "" {
		return IDRef(GUID(id)), nil
	}
	return EmbeddedRef(data), nil
}

func putAssetRef(f fields, r AssetRef, dataKey, idKey string) error {
	if data, ok := r.Embedded(); ok {
		return f.put(dataKey, data)
	}
	if id, ok := r.ID(); ok {
		return f.put(idKey, id)
	}
	return nil
}

func (p *Properties) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return fmt.Errorf("failed to decode properties: %w", err)
	}

	sprite, err := assetRefFrom(f, "spriteData", "spriteID")
	if err != nil {
		return err
	}

	var sounds []*Sound
	if _, err := f.take("sounds", &sounds); err != nil {
		return err
	}
	var minigames []*Minigame
	if _, err := f.take("minigames", &minigames); err != nil {
		return err
	}

	*p = Properties{
		Sprite:    sprite,
		Sounds:    sounds,
		Minigames: minigames,
		Extra:     f.rest(),
	}
	return nil
}

func (p Properties) MarshalJSON() ([]byte, error) {
	f := withExtra(p.Extra)
	if err := putAssetRef(f, p.Sprite, "spriteData", "spriteID"); err != nil {
		return nil, err
	}
	if p.Sounds != nil {
		if err := f.put("sounds", p.Sounds); err != nil {
			return nil, err
		}
	}
	if p.Minigames != nil {
		if err := f.put("minigames", p.Minigames); err != nil {
			return nil, err
		}
	}
	return json.Marshal(map[string]json.RawMessage(f)) //nolint:wrapcheck // plain map marshal
}

func (s *Sound) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return fmt.Errorf("failed to decode sound: %w", err)
	}

	id, err := pickString(f, "id")
	if err != nil {
		return err
	}
	data, err := pickString(f, "data")
	if err != nil {
		return err
	}
	dataID, err := pickString(f, "dataID")
	if err != nil {
		return err
	}
	presetID, err := pickString(f, "presetID")
	if err != nil {
		return err
	}
	var isPreset bool
	if _, err := f.take("isPreset", &isPreset); err != nil {
		return err
	}
	var volume *float64
	if _, err := f.take("volume", &volume); err != nil {
		return err
	}

	set := 0
	var source SoundSource
	if data != "" {
		set++
		source = EmbeddedSound(data)
	}
	if presetID != "" {
		set++
		source = PresetSound(presetID)
	}
	if dataID != "" {
		set++
		source = AssetSound(GUID(dataID))
	}
	if set > 1 {
		return fmt.Errorf("%w: sound %s sets more than one of data, presetID and dataID",
			ErrConflictingFields, id)
	}

	*s = Sound{
		ID:       GUID(id),
		Source:   source,
		IsPreset: isPreset,
		Volume:   volume,
		Extra:    f.rest(),
	}
	return nil
}

func (s Sound) MarshalJSON() ([]byte, error) {
	f := withExtra(s.Extra)
	if err := f.put("id", s.ID); err != nil {
		return nil, err
	}
	if err := f.put("isPreset", s.IsPreset); err != nil {
		return nil, err
	}
	if s.Volume != nil {
		if err := f.put("volume", *s.Volume); err != nil {
			return nil, err
		}
	}
	if s.Source.Kind() != SourceNone {
		if err := f.put(s.Source.Kind().String(), s.Source.Value()); err != nil {
			return nil, err
		}
	}
	return json.Marshal(map[string]json.RawMessage(f)) //nolint:wrapcheck // plain map marshal
}

func (m *Minigame) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return fmt.Errorf("failed to decode minigame: %w", err)
	}

	id, err := pickString(f, "id")
	if err != nil {
		return err
	}
	typ, err := pickString(f, "type")
	if err != nil {
		return err
	}
	sprite, err := assetRefFrom(f, "spriteData", "spriteID")
	if err != nil {
		return err
	}

	*m = Minigame{
		ID:     GUID(id),
		Type:   typ,
		Sprite: sprite,
		Extra:  f.rest(),
	}
	return nil
}

func (m Minigame) MarshalJSON() ([]byte, error) {
	f := withExtra(m.Extra)
	if err := f.put("id", m.ID); err != nil {
		return nil, err
	}
	if err := f.put("type", m.Type); err != nil {
		return nil, err
	}
	if err := putAssetRef(f, m.Sprite, "spriteData", "spriteID"); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage(f)) //nolint:wrapcheck // plain map marshal
}

// mergeKnown encodes v (a method-less alias of a model struct) and lays the
// extra keys underneath it. Known keys always win over extras.
func mergeKnown(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	if len(extra) == 0 {
		return b, nil
	}
	known, err := decodeFields(b)
	if err != nil {
		return nil, err
	}
	f := withExtra(extra)
	for k, raw := range known {
		f[k] = raw
	}
	return json.Marshal(map[string]json.RawMessage(f)) //nolint:wrapcheck // plain map marshal
}

func extraOf(b []byte, known []string) (map[string]json.RawMessage, error) {
	f, err := decodeFields(b)
	if err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(f, k)
	}
	return f.rest(), nil
}

func (e *Element) UnmarshalJSON(b []byte) error {
	type plain Element
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("failed to decode element: %w", err)
	}
	extra, err := extraOf(b, elementKeys)
	if err != nil {
		return fmt.Errorf("failed to decode element: %w", err)
	}
	p.Extra = extra
	*e = Element(p)
	return nil
}

func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	b, err := mergeKnown(plain(e), e.Extra)
	if err != nil {
		return nil, fmt.Errorf("failed to encode element %s: %w", e.ID, err)
	}
	return b, nil
}

func (m *Map) UnmarshalJSON(b []byte) error {
	type plain Map
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("failed to decode map: %w", err)
	}
	extra, err := extraOf(b, mapKeys)
	if err != nil {
		return fmt.Errorf("failed to decode map: %w", err)
	}
	p.Extra = extra
	p.Elements = slices.DeleteFunc(p.Elements, func(e *Element) bool { return e == nil })
	p.Assets = slices.DeleteFunc(p.Assets, func(a *Asset) bool { return a == nil })
	*m = Map(p)
	return nil
}

func (m Map) MarshalJSON() ([]byte, error) {
	type plain Map
	b, err := mergeKnown(plain(m), m.Extra)
	if err != nil {
		return nil, fmt.Errorf("failed to encode map: %w", err)
	}
	return b, nil
}
