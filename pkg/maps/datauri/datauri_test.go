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

package datauri

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// RFC 4648 section 10 test vectors.
var rfc4648Vectors = []struct {
	decoded string
	encoded string
}{
	{decoded: "", encoded: ""},
	{decoded: "f", encoded: "Zg=="},
	{decoded: "fo", encoded: "Zm8="},
	{decoded: "foo", encoded: "Zm9v"},
	{decoded: "foob", encoded: "Zm9vYg=="},
	{decoded: "fooba", encoded: "Zm9vYmE="},
	{decoded: "foobar", encoded: "Zm9vYmFy"},
}

func TestDecode_RFC4648Vectors(t *testing.T) {
	t.Parallel()

	for _, v := range rfc4648Vectors {
		t.Run(v.encoded, func(t *testing.T) {
			t.Parallel()

			mediaType, data, err := Decode("data:text/plain;base64," + v.encoded)
			require.NoError(t, err)
			assert.Equal(t, "text/plain", mediaType)
			assert.Equal(t, []byte(v.decoded), data)
			assert.Len(t, data, len(v.decoded))
		})
	}
}

func TestEncode_RFC4648Vectors(t *testing.T) {
	t.Parallel()

	for _, v := range rfc4648Vectors {
		assert.Equal(t, "data:text/plain;base64,"+v.encoded, Encode("text/plain", []byte(v.decoded)))
	}
}

func TestDecode_PNGHeader(t *testing.T) {
	t.Parallel()

	mediaType, data, err := Decode("data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		uri    string
		reason string
	}{
		{name: "no prefix", uri: "not-a-data-uri", reason: "missing data: prefix"},
		{name: "empty", uri: "", reason: "missing data: prefix"},
		{name: "no semicolon", uri: "data:image/png,AAAA", reason: "missing ';'"},
		{name: "no comma", uri: "data:image/png;base64AAAA", reason: "missing ','"},
		{name: "bad payload", uri: "data:image/png;base64,@@@@", reason: "not valid base64"},
		{name: "bad padding", uri: "data:audio/wav;base64,AAA", reason: "not valid base64"},
		{name: "http url", uri: "https://example.com/sprite.png", reason: "missing data: prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mediaType, data, err := Decode(tt.uri)
			require.Error(t, err)
			assert.Empty(t, mediaType)
			assert.Nil(t, data)

			var malformed *MalformedDataURIError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.uri, malformed.URI)
			assert.Contains(t, malformed.Reason, tt.reason)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_MalformedWrapsBase64Error(t *testing.T) {
	t.Parallel()

	_, _, err := Decode("data:image/png;base64,!!")
	require.Error(t, err)

	var malformed *MalformedDataURIError
	require.ErrorAs(t, err, &malformed)
	require.Error(t, errors.Unwrap(err))
}

func TestMalformedDataURIError_TruncatesLongURIs(t *testing.T) {
	t.Parallel()

	uri := "data:image/png;base64," + strings.Repeat("!", 4096)
	_, _, err := Decode(uri)
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 200)
	assert.Contains(t, err.Error(), "...")
}

func TestMediaType(t *testing.T) {
	t.Parallel()

	mediaType, err := MediaType("data:audio/wav;base64,this is not decoded")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", mediaType)

	_, err = MediaType("preset-x")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestIsDataURI(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDataURI("data:image/png;base64,"))
	assert.False(t, IsDataURI("preset-x"))
	assert.False(t, IsDataURI(""))
}

// TestPropertyRoundTrip verifies Decode(Encode(t, b)) == (t, b) for any bytes,
// including empty input and embedded NULs.
func TestPropertyRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		mediaType := rapid.StringMatching(`(image|audio|application)/[a-z0-9.+-]{1,12}`).Draw(t, "mediaType")
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")

		gotType, gotData, err := Decode(Encode(mediaType, data))
		if err != nil {
			t.Fatalf("decode of encoded data failed: %v", err)
		}
		if gotType != mediaType {
			t.Fatalf("media type mismatch: %q != %q", gotType, mediaType)
		}
		if len(gotData) != len(data) {
			t.Fatalf("length mismatch: %d != %d", len(gotData), len(data))
		}
		for i := range data {
			if gotData[i] != data[i] {
				t.Fatalf("byte %d mismatch: %x != %x", i, gotData[i], data[i])
			}
		}
	})
}

func TestRoundTrip_NulBytes(t *testing.T) {
	t.Parallel()

	data := []byte{0, 0, 'a', 0, 0xff, 0}
	mediaType, got, err := Decode(Encode("application/octet-stream", data))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mediaType)
	assert.Equal(t, data, got)
}
