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
	"strings"
	"testing"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	t.Parallel()

	sig := Sign(models.Payload{MediaType: "image/png", Data: []byte("Hello, World!")})
	assert.Equal(t, "image/png", sig.MediaType)
	assert.Equal(t, int64(13), sig.Size)
	assert.Equal(t, "0a0a9f2a6772942557ab5355d76af442f8f65e01", sig.SHA1)
	assert.Equal(t, "image/png:13:0a0a9f2a6772942557ab5355d76af442f8f65e01", sig.String())
}

func TestSign_Empty(t *testing.T) {
	t.Parallel()

	sig := Sign(models.Payload{MediaType: "audio/wav"})
	assert.Equal(t, int64(0), sig.Size)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", sig.SHA1)
}

func TestSignReader_MatchesSign(t *testing.T) {
	t.Parallel()

	data := strings.Repeat("sprite", 1000)
	fromReader, err := SignReader("image/png", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sign(models.Payload{MediaType: "image/png", Data: []byte(data)}), fromReader)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestSignReader_Error(t *testing.T) {
	t.Parallel()

	_, err := SignReader("image/png", failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read content for signature")
}
