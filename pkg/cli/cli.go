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

// Package cli holds the flag handling and command flow shared by the map
// tools in cmd/.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/LevelImposter/lim-core/pkg/config"
	"github.com/LevelImposter/lim-core/pkg/helpers"
)

// AppVersion is overridden at build time with -ldflags.
var AppVersion = "DEVELOPMENT"

// ErrUsage is returned when no map file was given.
var ErrUsage = errors.New("expected exactly one map file")

type Flags struct {
	Config    *string
	Out       *string
	Thumbnail *string
	Search    *string
	Report    *bool
	Publish   *bool
	NewID     *bool
	Version   *bool
}

// SetupFlags defines all CLI flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config: fs.String(
			"config",
			"",
			"path to config file (default is config.toml in the user config dir)",
		),
		Out: fs.String(
			"out",
			"",
			"write the converted map here instead of next to the input",
		),
		Thumbnail: fs.String(
			"thumbnail",
			"",
			"PNG thumbnail to publish with the map",
		),
		Search: fs.String(
			"search",
			"",
			"search published maps by name instead of converting a file",
		),
		Report: fs.Bool(
			"report",
			false,
			"print an asset usage report",
		),
		Publish: fs.Bool(
			"publish",
			false,
			"publish the converted map to the local store",
		),
		NewID: fs.Bool(
			"new-id",
			false,
			"publish under a fresh map ID instead of the map's own",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Parse parses args and returns the map file argument. With -version, or
// -search and no file, the path is empty and no error is returned.
func (f *Flags) Parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		return "", nil
	}
	if *f.Search != "" && fs.NArg() == 0 {
		return "", nil
	}
	if fs.NArg() != 1 {
		return "", ErrUsage
	}
	return fs.Arg(0), nil
}

// Setup initializes directories, logging and the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	dirs helpers.Dirs,
	cfgPath string,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := helpers.InitLogging(dirs.Log, writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var (
		cfg *config.Instance
		err error
	)
	if cfgPath != "" {
		cfg, err = config.OpenConfig(cfgPath, defaultConfig)
	} else {
		cfg, err = config.NewConfig(dirs.Config, defaultConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	helpers.SetDebugLogging(cfg.DebugLogging())
	return cfg, nil
}
