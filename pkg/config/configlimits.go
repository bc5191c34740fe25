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

package config

import (
	"errors"
	"fmt"
)

const (
	// DefaultWarnMapSize is the size above which a map is slow to load in
	// game.
	DefaultWarnMapSize = 40 * 1024 * 1024
	// DefaultMaxMapSize is the size above which a map may fail to load.
	DefaultMaxMapSize = 50 * 1024 * 1024
	// DefaultMaxAssetSize is the size above which a single sprite or sound
	// is flagged.
	DefaultMaxAssetSize = 1024 * 1024
)

// ErrInvalidLimits is returned for negative or inverted size thresholds.
var ErrInvalidLimits = errors.New("invalid limits")

// Limits are advisory size thresholds in bytes. Zero disables a check.
type Limits struct {
	WarnMapSize  int64 `toml:"warn_map_size"`
	MaxMapSize   int64 `toml:"max_map_size"`
	MaxAssetSize int64 `toml:"max_asset_size"`
}

func (l Limits) validate() error {
	if l.WarnMapSize < 0 || l.MaxMapSize < 0 || l.MaxAssetSize < 0 {
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidLimits)
	}
	if l.WarnMapSize > 0 && l.MaxMapSize > 0 && l.WarnMapSize > l.MaxMapSize {
		return fmt.Errorf("%w: warn_map_size %d is above max_map_size %d",
			ErrInvalidLimits, l.WarnMapSize, l.MaxMapSize)
	}
	return nil
}

func (c *Instance) Limits() Limits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Limits
}

func (c *Instance) SetLimits(l Limits) error {
	if err := l.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Limits = l
	return nil
}
