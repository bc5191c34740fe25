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
	"fmt"
	"strings"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidUploadType is returned for uploads outside the allowed media
// types, or whose content does not match what they claim to be.
var ErrInvalidUploadType = errors.New("invalid upload type")

const unknownContent = "application/octet-stream"

// UploadCheck describes an upload that passed validation.
type UploadCheck struct {
	// MediaType is the declared type, or the sniffed one if none was declared.
	MediaType string
	Sniffed   string
	// Oversized is advisory: the editor warns but still accepts the file.
	Oversized bool
}

func matchesAny(mediaType string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(mediaType, p) {
			return true
		}
	}
	return false
}

// ValidateUpload checks a freshly uploaded payload against the allowed media
// type prefixes (e.g. "image/"). maxSize <= 0 disables the size warning.
func ValidateUpload(p models.Payload, allowed []string, maxSize int) (UploadCheck, error) {
	sniffed := mimetype.Detect(p.Data)
	sniffedType, _, _ := strings.Cut(sniffed.String(), ";")

	mediaType := p.MediaType
	if mediaType == "" {
		mediaType = sniffedType
	}

	if !matchesAny(mediaType, allowed) {
		return UploadCheck{}, fmt.Errorf("%w: %s", ErrInvalidUploadType, mediaType)
	}
	if sniffedType != unknownContent && !matchesAny(sniffedType, allowed) {
		return UploadCheck{}, fmt.Errorf("%w: declared %s but content is %s",
			ErrInvalidUploadType, mediaType, sniffedType)
	}

	return UploadCheck{
		MediaType: mediaType,
		Sniffed:   sniffedType,
		Oversized: maxSize > 0 && len(p.Data) > maxSize,
	}, nil
}
