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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/LevelImposter/lim-core/pkg/config"
	"github.com/adrg/xdg"
)

// UserDir is the name of the folder next to the executable that, when
// present, holds all config and data for a portable install.
const UserDir = "user"

// ExeEnv overrides the executable path used to locate UserDir.
const ExeEnv = "LIMCORE_EXE"

// Dirs are the directories the tools read and write.
type Dirs struct {
	Config string
	Data   string
	Log    string
}

var (
	userDirOnce   sync.Once
	userDirCache  string
	userDirExists bool
)

// HasUserDir returns the portable user directory if it exists. The result
// is cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		userDirCache, userDirExists = findUserDir(os.Getenv(ExeEnv))
	})
	return userDirCache, userDirExists
}

func findUserDir(exe string) (string, bool) {
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return "", false
		}
	}
	dir := filepath.Join(filepath.Dir(exe), UserDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

// DefaultDirs returns the XDG locations for config, data and logs, or the
// portable user directory for all three when one exists.
func DefaultDirs() Dirs {
	if v, ok := HasUserDir(); ok {
		return Dirs{Config: v, Data: v, Log: v}
	}
	return Dirs{
		Config: filepath.Join(xdg.ConfigHome, config.AppName),
		Data:   filepath.Join(xdg.DataHome, config.AppName),
		Log:    filepath.Join(xdg.StateHome, config.AppName),
	}
}

// EnsureDirectories creates every directory in d.
func EnsureDirectories(d Dirs) error {
	for _, dir := range []string{d.Config, d.Data, d.Log} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func ConfigDir() string {
	return DefaultDirs().Config
}

func DataDir() string {
	return DefaultDirs().Data
}

func LogDir() string {
	return DefaultDirs().Log
}
