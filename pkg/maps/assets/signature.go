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
	"bytes"
	"crypto/sha1" //nolint:gosec // content identity, not security
	"fmt"
	"io"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
)

// Signature identifies uploaded content without keeping the bytes around.
type Signature struct {
	MediaType string
	SHA1      string
	Size      int64
}

func (s Signature) String() string {
	return fmt.Sprintf("%s:%d:%s", s.MediaType, s.Size, s.SHA1)
}

// Sign computes the signature of an in-memory payload.
func Sign(p models.Payload) Signature {
	sig, _ := SignReader(p.MediaType, bytes.NewReader(p.Data))
	return sig
}

// SignReader computes the signature of content read from r in one pass.
func SignReader(mediaType string, r io.Reader) (Signature, error) {
	h := sha1.New() //nolint:gosec // content identity, not security
	n, err := io.Copy(h, r)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to read content for signature: %w", err)
	}
	return Signature{
		MediaType: mediaType,
		Size:      n,
		SHA1:      fmt.Sprintf("%x", h.Sum(nil)),
	}, nil
}
