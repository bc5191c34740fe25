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

package normalize

import (
	"errors"
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
)

// ErrNilDocument is returned when Normalize is called without a document.
var ErrNilDocument = errors.New("nil map document")

// ConversionError reports a legacy field that could not be converted. The
// whole normalization is abandoned when one is returned.
type ConversionError struct {
	Err       error
	ElementID models.GUID
	// Path is the JSON path of the failing field inside the element,
	// e.g. "properties.sounds[2].data".
	Path string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %s of element %s: %v", e.Path, e.ElementID, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
