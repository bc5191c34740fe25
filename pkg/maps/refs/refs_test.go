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

package refs

import (
	"testing"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizedMap() *models.Map {
	return &models.Map{
		Elements: []*models.Element{
			{ID: "e1", Properties: models.Properties{
				Sprite: models.IDRef("a1"),
				Sounds: []*models.Sound{
					{ID: "s1", Source: models.AssetSound("a2")},
					{ID: "s2", Source: models.PresetSound("step")},
				},
			}},
			nil,
			{ID: "e2", Properties: models.Properties{
				Sprite:    models.IDRef("a1"),
				Minigames: []*models.Minigame{{ID: "m1", Sprite: models.IDRef("missing")}},
			}},
		},
		Assets: []*models.Asset{
			{ID: "a1", Payload: models.Payload{MediaType: "image/png"}},
			{ID: "a2", Payload: models.Payload{MediaType: "audio/wav"}},
			{ID: "a3", Payload: models.Payload{MediaType: "image/png"}},
		},
	}
}

func TestCollect_VisitOrder(t *testing.T) {
	t.Parallel()

	got := Collect(normalizedMap())
	assert.Equal(t, []Ref{
		{ElementID: "e1", Path: "properties.spriteID", AssetID: "a1"},
		{ElementID: "e1", Path: "properties.sounds[0].dataID", AssetID: "a2"},
		{ElementID: "e2", Path: "properties.spriteID", AssetID: "a1"},
		{ElementID: "e2", Path: "properties.minigames[0].spriteID", AssetID: "missing"},
	}, got)
}

func TestCounts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[models.GUID]int{"a1": 2, "a2": 1, "a3": 0}, Counts(normalizedMap()))
}

func TestVerify_ReportsEveryMissingAsset(t *testing.T) {
	t.Parallel()

	doc := normalizedMap()
	doc.Elements[0].Properties.Sounds[0].Source = models.AssetSound("gone")

	err := Verify(doc)
	require.Error(t, err)

	var missing *MissingAssetError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "properties.sounds[0].dataID references missing asset gone")
	assert.Contains(t, err.Error(), "properties.minigames[0].spriteID references missing asset missing")
}

func TestVerify_Complete(t *testing.T) {
	t.Parallel()

	doc := normalizedMap()
	doc.Elements[2].Properties.Minigames = nil
	assert.NoError(t, Verify(doc))
	assert.NoError(t, Verify(&models.Map{}))
}

func TestUnreferencedAndPrune(t *testing.T) {
	t.Parallel()

	doc := normalizedMap()
	assert.Equal(t, []models.GUID{"a3"}, Unreferenced(doc))

	assert.Equal(t, 1, Prune(doc))
	assert.Equal(t, []models.GUID{"a1", "a2"}, doc.AssetIDs())
	assert.Empty(t, Unreferenced(doc))
	assert.Equal(t, 0, Prune(doc))
}

func TestNilAssetsAreSkipped(t *testing.T) {
	t.Parallel()

	doc := normalizedMap()
	doc.Elements[2].Properties.Minigames = nil
	doc.Assets = append([]*models.Asset{nil}, doc.Assets...)
	doc.Assets = append(doc.Assets, nil)

	assert.Equal(t, map[models.GUID]int{"a1": 2, "a2": 1, "a3": 0}, Counts(doc))
	require.NoError(t, Verify(doc))
	assert.Equal(t, []models.GUID{"a3"}, Unreferenced(doc))

	assert.Equal(t, 1, Prune(doc))
	assert.Equal(t, []models.GUID{"a1", "a2"}, doc.AssetIDs())
	assert.NotContains(t, doc.Assets, (*models.Asset)(nil))
}

func TestLegacyFields(t *testing.T) {
	t.Parallel()

	got := LegacyFields(fixtures.NewLegacyMap())
	assert.Equal(t, []Field{
		{ElementID: "e1", Path: "properties.spriteData"},
		{ElementID: "e2", Path: "properties.sounds[0].data"},
		{ElementID: "e2", Path: "properties.sounds[1].data"},
		{ElementID: "e3", Path: "properties.minigames[0].spriteData"},
		{ElementID: "e4", Path: "properties.spriteData"},
	}, got)

	assert.Empty(t, LegacyFields(normalizedMap()))
}

func TestNonWavSounds(t *testing.T) {
	t.Parallel()

	doc := &models.Map{
		Elements: []*models.Element{
			fixtures.NewSoundElement("e1",
				fixtures.NewLegacySound("s1", fixtures.ShortWavURI, false),
				fixtures.NewLegacySound("s2", fixtures.OggURI, false),
				fixtures.NewLegacySound("s3", "jump", true),
				fixtures.NewLegacySound("s4", "garbage", false),
				&models.Sound{ID: "s5"},
				&models.Sound{ID: "s6", Source: models.AssetSound("mp3")},
				&models.Sound{ID: "s7", Source: models.AssetSound("wav")},
				&models.Sound{ID: "s8", Source: models.AssetSound("unknown")},
			),
		},
		Assets: []*models.Asset{
			{ID: "mp3", Payload: models.Payload{MediaType: "audio/mpeg"}},
			{ID: "wav", Payload: models.Payload{MediaType: "AUDIO/WAV"}},
		},
	}

	assert.Equal(t, []Field{
		{ElementID: "e1", Path: "properties.sounds[1]"},
		{ElementID: "e1", Path: "properties.sounds[3]"},
		{ElementID: "e1", Path: "properties.sounds[5]"},
	}, NonWavSounds(doc))
}
