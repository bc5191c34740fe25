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

// AssetRef points at binary data either inline (a legacy data URI) or by
// asset ID. The two forms are mutually exclusive: the constructors are the
// only way to set either one.
type AssetRef struct {
	embedded string
	id       GUID
}

// EmbeddedRef returns a reference holding an inline data URI. An empty
// string yields the zero reference.
func EmbeddedRef(uri string) AssetRef {
	return AssetRef{embedded: uri}
}

// IDRef returns a reference to a stored asset.
func IDRef(id GUID) AssetRef {
	return AssetRef{id: id}
}

// Embedded returns the inline data URI, if any.
func (r AssetRef) Embedded() (string, bool) {
	return r.embedded, r.embedded != ""
}

// ID returns the referenced asset ID, if any.
func (r AssetRef) ID() (GUID, bool) {
	return r.id, r.id != ""
}

func (r AssetRef) IsZero() bool {
	return r.embedded == "" && r.id == ""
}

// SourceKind tells which field of a sound carries its audio.
type SourceKind uint8

const (
	SourceNone SourceKind = iota
	// SourceEmbedded is the legacy "data" field. Depending on Sound.IsPreset
	// it holds either a data URI or a preset name.
	SourceEmbedded
	SourcePreset
	SourceAsset
)

func (k SourceKind) String() string {
	switch k {
	case SourceNone:
		return "none"
	case SourceEmbedded:
		return "data"
	case SourcePreset:
		return "presetID"
	case SourceAsset:
		return "dataID"
	default:
		return "unknown"
	}
}

// SoundSource is exactly one of: nothing, legacy data, a preset ID or an
// asset ID.
type SoundSource struct {
	value string
	kind  SourceKind
}

func EmbeddedSound(data string) SoundSource {
	if data == "" {
		return SoundSource{}
	}
	return SoundSource{kind: SourceEmbedded, value: data}
}

func PresetSound(presetID string) SoundSource {
	if presetID == "" {
		return SoundSource{}
	}
	return SoundSource{kind: SourcePreset, value: presetID}
}

func AssetSound(id GUID) SoundSource {
	if id == "" {
		return SoundSource{}
	}
	return SoundSource{kind: SourceAsset, value: string(id)}
}

func (s SoundSource) Kind() SourceKind {
	return s.kind
}

// Value returns the raw field value for the current kind.
func (s SoundSource) Value() string {
	return s.value
}

// AssetID returns the referenced asset when the kind is SourceAsset.
func (s SoundSource) AssetID() (GUID, bool) {
	if s.kind != SourceAsset {
		return "", false
	}
	return GUID(s.value), true
}
