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

// Package mapfile reads and writes map files. Legacy files are normalized
// on open, so callers only ever see the current document shape.
package mapfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/normalize"
	"github.com/LevelImposter/lim-core/pkg/maps/refs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ExtLegacy       = ".lim"
	ExtLegacyBackup = ".lim.bak"
	ExtLegacyJSON   = ".json"
	ExtCurrent      = ".lim2"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatLegacy
	FormatCurrent
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatCurrent:
		return "current"
	case FormatUnknown:
	}
	return "unknown"
}

// UnsupportedFormatError is returned for files no conversion path knows:
// an unknown extension or a format version newer than this build.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported map file %s: %s", e.Path, e.Reason)
}

// DetectFormat tells the file format from its extension.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(lower, ExtLegacyBackup),
		strings.HasSuffix(lower, ExtLegacy),
		strings.HasSuffix(lower, ExtLegacyJSON):
		return FormatLegacy, nil
	case strings.HasSuffix(lower, ExtCurrent):
		return FormatCurrent, nil
	default:
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "invalid file type"}
	}
}

// SizeStatus grades a file size against Limits. It never blocks opening.
type SizeStatus int

const (
	SizeOK SizeStatus = iota
	SizeWarn
	SizeTooLarge
)

func (s SizeStatus) String() string {
	switch s {
	case SizeWarn:
		return "warn"
	case SizeTooLarge:
		return "too large"
	case SizeOK:
	}
	return "ok"
}

// Limits are the map size thresholds in bytes. Zero disables a threshold.
type Limits struct {
	Warn int64
	Max  int64
}

func (l Limits) Check(size int64) SizeStatus {
	switch {
	case l.Max > 0 && size > l.Max:
		return SizeTooLarge
	case l.Warn > 0 && size > l.Warn:
		return SizeWarn
	default:
		return SizeOK
	}
}

// Result is an opened map file.
type Result struct {
	Map        *models.Map
	Path       string
	Format     Format
	Size       int64
	SizeStatus SizeStatus
	// Converted counts the legacy fields rewritten while opening.
	Converted int
}

// Decode parses a map document of any supported version.
func Decode(data []byte) (*models.Map, error) {
	var doc models.Map
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}
	return &doc, nil
}

// Encode serializes doc with its asset collection.
func Encode(doc *models.Map) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode map: %w", err)
	}
	return b, nil
}

// Open reads, decodes and normalizes the map file at path. Reading stops
// with ctx.Err() when ctx is cancelled.
func Open(ctx context.Context, fs afero.Fs, path string, limits Limits) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat map file: %w", err)
	}
	res := &Result{
		Path:       path,
		Format:     format,
		Size:       info.Size(),
		SizeStatus: limits.Check(info.Size()),
	}
	switch res.SizeStatus {
	case SizeTooLarge:
		log.Warn().Str("path", path).Int64("size", res.Size).
			Msg("map file exceeds the maximum size, it may fail to load in game")
	case SizeWarn:
		log.Warn().Str("path", path).Int64("size", res.Size).
			Msg("map file is large, consider reducing asset sizes")
	case SizeOK:
	}

	data, err := readAll(ctx, fs, path)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if doc.V > models.CurrentVersion {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("version %d is newer than %d", doc.V, models.CurrentVersion),
		}
	}

	if format == FormatCurrent {
		if legacy := refs.LegacyFields(doc); len(legacy) > 0 {
			log.Warn().Str("path", path).Int("fields", len(legacy)).
				Msg("current format map contains embedded data")
		}
	}

	norm, err := normalize.New().Run(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", path, err)
	}
	res.Map = norm.Map
	res.Converted = norm.Stats.Converted()

	log.Info().
		Str("path", path).
		Str("format", format.String()).
		Int("converted", res.Converted).
		Msg("opened map file")
	return res, nil
}

// Save writes doc in the current format.
func Save(fs afero.Fs, path string, doc *models.Map) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create map directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	return nil
}

// CurrentPath returns path with its map extension replaced by .lim2.
func CurrentPath(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{ExtLegacyBackup, ExtCurrent, ExtLegacy, ExtLegacyJSON} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)] + ExtCurrent
		}
	}
	return path + ExtCurrent
}

func readAll(ctx context.Context, fs afero.Fs, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("failed to close map file")
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, &ctxReader{ctx: ctx, r: f}); err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return buf.Bytes(), nil
}

// ctxReader fails the next Read once its context is done.
type ctxReader struct {
	ctx context.Context //nolint:containedctx // scoped to a single copy
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck // surfaced as the copy error
	}
	return c.r.Read(p) //nolint:wrapcheck // surfaced as the copy error
}
