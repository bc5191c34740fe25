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

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/LevelImposter/lim-core/pkg/maps/assets"
	"github.com/LevelImposter/lim-core/pkg/maps/mapfile"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/refs"
)

// AssetLine is one row of the asset table.
type AssetLine struct {
	ID        models.GUID
	MediaType string
	Problem   string
	Size      int
	Refs      int
	Oversized bool
}

// Report summarizes an opened map for the -report flag.
type Report struct {
	Path       string
	Name       string
	ID         models.GUID
	Format     mapfile.Format
	SizeStatus mapfile.SizeStatus
	Assets     []AssetLine
	Legacy     []refs.Field
	NonWav     []refs.Field
	Unused     []models.GUID
	Size       int64
	Converted  int
	Version    int
}

// ReportOptions are the upload rules assets are checked against.
type ReportOptions struct {
	ImageTypes   []string
	SoundTypes   []string
	MaxAssetSize int
}

func BuildReport(res *mapfile.Result, opts ReportOptions) *Report {
	doc := res.Map
	r := &Report{
		Path:       res.Path,
		Name:       doc.Name,
		ID:         doc.ID,
		Version:    doc.V,
		Format:     res.Format,
		Size:       res.Size,
		SizeStatus: res.SizeStatus,
		Converted:  res.Converted,
		Legacy:     refs.LegacyFields(doc),
		NonWav:     refs.NonWavSounds(doc),
		Unused:     refs.Unreferenced(doc),
	}

	allowed := append(append([]string(nil), opts.ImageTypes...), opts.SoundTypes...)
	counts := refs.Counts(doc)
	for _, a := range doc.Assets {
		line := AssetLine{
			ID:        a.ID,
			MediaType: a.MediaType,
			Size:      a.Size(),
			Refs:      counts[a.ID],
		}
		check, err := assets.ValidateUpload(a.Payload, allowed, opts.MaxAssetSize)
		if err != nil {
			line.Problem = err.Error()
		} else {
			line.Oversized = check.Oversized
		}
		r.Assets = append(r.Assets, line)
	}
	return r
}

func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "map:\t%s (%s) v%d\n", r.Name, r.ID, r.Version)
	_, _ = fmt.Fprintf(tw, "file:\t%s (%s, %d bytes, %s)\n", r.Path, r.Format, r.Size, r.SizeStatus)
	_, _ = fmt.Fprintf(tw, "converted:\t%d fields\n", r.Converted)
	_, _ = fmt.Fprintln(tw)

	_, _ = fmt.Fprintln(tw, "ASSET\tTYPE\tBYTES\tREFS\tNOTES")
	for _, a := range r.Assets {
		notes := a.Problem
		if a.Oversized {
			notes = "oversized"
		}
		if a.Refs == 0 && notes == "" {
			notes = "unused"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", a.ID, a.MediaType, a.Size, a.Refs, notes)
	}

	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintf(tw, "unused assets:\t%d\n", len(r.Unused))
	writeFields(tw, "legacy fields", r.Legacy)
	writeFields(tw, "non-wav sounds", r.NonWav)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeFields(w io.Writer, title string, fields []refs.Field) {
	if len(fields) == 0 {
		_, _ = fmt.Fprintf(w, "%s:\tnone\n", title)
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\t%d\n", title, len(fields))
	for _, f := range fields {
		_, _ = fmt.Fprintf(w, "\t%s %s\n", f.ElementID, f.Path)
	}
}
