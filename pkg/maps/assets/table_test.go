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

package assets

import (
	"errors"
	"testing"

	"github.com/LevelImposter/lim-core/pkg/maps/ids"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func payloadOf(s string) Materializer {
	return func() (models.Payload, error) {
		return models.Payload{MediaType: "image/png", Data: []byte(s)}, nil
	}
}

func TestInternByKey_MaterializesOnce(t *testing.T) {
	t.Parallel()

	table := NewTable(WithGenerator(ids.Sequential("a")))
	calls := 0
	materialize := func() (models.Payload, error) {
		calls++
		return models.Payload{MediaType: "image/png", Data: []byte{1, 2, 3}}, nil
	}

	first, err := table.InternByKey("data:image/png;base64,AQID", materialize)
	require.NoError(t, err)
	second, err := table.InternByKey("data:image/png;base64,AQID", materialize)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, table.Len())
}

func TestInternByKey_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	table := NewTable(WithGenerator(ids.Sequential("a")))
	for _, key := range []string{"k3", "k1", "k3", "k2", "k1"} {
		_, err := table.InternByKey(key, payloadOf(key))
		require.NoError(t, err)
	}

	got := table.Assets()
	require.Len(t, got, 3)
	assert.Equal(t, []byte("k3"), got[0].Data)
	assert.Equal(t, []byte("k1"), got[1].Data)
	assert.Equal(t, []byte("k2"), got[2].Data)
	assert.Equal(t, models.GUID("a-1"), got[0].ID)
	assert.Equal(t, LocatorFor("a-1"), got[0].Locator)
}

func TestInternByKey_MaterializeError(t *testing.T) {
	t.Parallel()

	table := NewTable()
	boom := errors.New("boom")
	id, err := table.InternByKey("bad", func() (models.Payload, error) {
		return models.Payload{}, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, id)
	assert.Equal(t, 0, table.Len())

	// a later success for the same key is still possible
	id, err = table.InternByKey("bad", payloadOf("ok"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestAssets_IsSnapshot(t *testing.T) {
	t.Parallel()

	table := NewTable()
	_, err := table.InternByKey("one", payloadOf("one"))
	require.NoError(t, err)

	snap := table.Assets()
	_, err = table.InternByKey("two", payloadOf("two"))
	require.NoError(t, err)

	assert.Len(t, snap, 1)
	assert.Len(t, table.Assets(), 2)
}

func TestAdopt(t *testing.T) {
	t.Parallel()

	table := NewTable(WithLocator(func(id models.GUID) string { return "mem://" + string(id) }))
	existing := &models.Asset{ID: "known", Payload: models.Payload{MediaType: "audio/wav", Data: []byte{0}}}

	assert.True(t, table.Adopt(existing))
	assert.False(t, table.Adopt(existing), "second adopt is a no-op")
	assert.True(t, table.Contains("known"))
	assert.Equal(t, 1, table.Len())

	got := table.Assets()[0]
	assert.Equal(t, "mem://known", got.Locator)
	assert.Empty(t, existing.Locator, "adopt must not mutate the caller's asset")
}

func TestNewID_SkipsAdoptedIDs(t *testing.T) {
	t.Parallel()

	table := NewTable(WithGenerator(ids.Sequential("a")))
	table.Adopt(&models.Asset{ID: "a-1"})

	id, err := table.InternByKey("fresh", payloadOf("fresh"))
	require.NoError(t, err)
	assert.Equal(t, models.GUID("a-2"), id)
}

func TestInternUpload(t *testing.T) {
	t.Parallel()

	table := NewTable()
	png := models.Payload{MediaType: "image/png", Data: []byte("same bytes")}
	wav := models.Payload{MediaType: "audio/wav", Data: []byte("same bytes")}

	a := table.InternUpload(png)
	b := table.InternUpload(models.Payload{MediaType: "image/png", Data: []byte("same bytes")})
	c := table.InternUpload(wav)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "same bytes under another media type are distinct content")
	assert.Equal(t, 2, table.Len())
}

func TestInternUpload_KeysDoNotAliasFieldValues(t *testing.T) {
	t.Parallel()

	table := NewTable()
	upload := models.Payload{MediaType: "image/png", Data: []byte("uploaded")}
	id := table.InternUpload(upload)

	decodeErr := errors.New("not a data uri")
	literal := "upload:" + Sign(upload).String()
	_, err := table.InternByKey(literal, func() (models.Payload, error) {
		return models.Payload{}, decodeErr
	})
	require.ErrorIs(t, err, decodeErr)

	other, err := table.InternByKey(Sign(upload).String(), payloadOf("x"))
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, table.Len())
}

// TestPropertyDistinctKeysDistinctAssets verifies the table never merges
// different keys and always merges equal ones.
func TestPropertyDistinctKeysDistinctAssets(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfN(rapid.StringMatching(`[a-d]{1,3}`), 1, 40).Draw(t, "keys")

		table := NewTable(WithGenerator(ids.Sequential("p")))
		assigned := make(map[string]models.GUID)
		for _, k := range keys {
			id, err := table.InternByKey(k, payloadOf(k))
			if err != nil {
				t.Fatalf("intern failed: %v", err)
			}
			if prev, ok := assigned[k]; ok && prev != id {
				t.Fatalf("key %q got %s then %s", k, prev, id)
			}
			assigned[k] = id
		}

		if table.Len() != len(assigned) {
			t.Fatalf("expected %d assets, got %d", len(assigned), table.Len())
		}
		seen := make(map[models.GUID]bool)
		for _, a := range table.Assets() {
			if seen[a.ID] {
				t.Fatalf("duplicate asset id %s", a.ID)
			}
			seen[a.ID] = true
		}
	})
}
