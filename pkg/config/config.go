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
	"os"
	"path/filepath"

	"github.com/LevelImposter/lim-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	AppName       = "limcore"
	CfgEnv        = "LIMCORE_CFG"
	CfgFile       = "config.toml"
	LogFile       = "core.log"
)

// ErrSchemaMismatch is returned when the config file was written for a
// different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Upload       Upload    `toml:"upload"`
	Publish      Publish   `toml:"publish"`
	Normalize    Normalize `toml:"normalize"`
	Limits       Limits    `toml:"limits"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Normalize struct {
	// VerifyReferences checks that every asset reference resolves after a
	// map is opened.
	VerifyReferences bool `toml:"verify_references"`
}

type Publish struct {
	AuthorID   string `toml:"author_id,omitempty"`
	AuthorName string `toml:"author_name,omitempty"`
	Public     bool   `toml:"public"`
}

type Upload struct {
	ImageTypes []string `toml:"image_types,omitempty"`
	SoundTypes []string `toml:"sound_types,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Normalize: Normalize{
		VerifyReferences: true,
	},
	Limits: Limits{
		WarnMapSize:  DefaultWarnMapSize,
		MaxMapSize:   DefaultMaxMapSize,
		MaxAssetSize: DefaultMaxAssetSize,
	},
	Upload: Upload{
		ImageTypes: []string{"image/"},
		SoundTypes: []string{"audio/"},
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file in configDir, or the file named by the
// LIMCORE_CFG environment variable.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}
	return OpenConfig(cfgPath, defaults)
}

// OpenConfig loads the config file at cfgPath. A missing file is created
// from defaults.
//
//nolint:gocritic // config struct copied for immutability
func OpenConfig(cfgPath string, defaults Values) (*Instance, error) {
	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// Fields not present in the file retain their default values.
	newVals := c.defaults
	newVals.Upload = Upload{}
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if newVals.Upload.ImageTypes == nil {
		newVals.Upload.ImageTypes = c.defaults.Upload.ImageTypes
	}
	if newVals.Upload.SoundTypes == nil {
		newVals.Upload.SoundTypes = c.defaults.Upload.SoundTypes
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := newVals.Limits.validate(); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) VerifyReferences() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Normalize.VerifyReferences
}

// PublishAuthor returns the configured author ID and display name.
func (c *Instance) PublishAuthor() (id, name string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Publish.AuthorID, c.vals.Publish.AuthorName
}

func (c *Instance) SetPublishAuthor(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Publish.AuthorID = id
	c.vals.Publish.AuthorName = name
}

func (c *Instance) PublishPublic() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Publish.Public
}

// UploadImageTypes returns the media type prefixes accepted for sprites.
func (c *Instance) UploadImageTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.Upload.ImageTypes...)
}

// UploadSoundTypes returns the media type prefixes accepted for sounds.
func (c *Instance) UploadSoundTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.Upload.SoundTypes...)
}
