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

// Package ids generates identifiers for map elements and assets.
package ids

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/google/uuid"
)

// Generator produces unique identifiers. Implementations must be callable
// any number of times without coordination.
type Generator func() models.GUID

// UUIDv4 returns a Generator of random RFC 9562 version 4 UUIDs, the same
// shape the editor has always written into map files.
func UUIDv4() Generator {
	return func() models.GUID {
		return models.GUID(uuid.NewString())
	}
}

// Sequential returns a deterministic Generator yielding prefix-1, prefix-2,
// and so on. Used for reproducible output in tests and golden files.
func Sequential(prefix string) Generator {
	var n atomic.Uint64
	return func() models.GUID {
		return models.GUID(prefix + "-" + strconv.FormatUint(n.Add(1), 10))
	}
}

// Default is used by New and by every component not given a Generator.
var Default = UUIDv4()

// New produces an identifier using Default.
func New() models.GUID {
	return Default()
}

// Parse checks that s is a UUID and returns it in canonical form.
func Parse(s string) (models.GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid GUID %q: %w", s, err)
	}
	return models.GUID(u.String()), nil
}
