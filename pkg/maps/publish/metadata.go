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

package publish

import (
	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/jonboulle/clockwork"
)

// Metadata is the catalog document of a published map: the map header
// without elements or assets.
type Metadata struct {
	ThumbnailURL *string `json:"thumbnailURL"`
	ID           string  `json:"id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"mapname"`
	Description  string  `json:"description"`
	AuthorID     string  `json:"authorID" validate:"required"`
	AuthorName   string  `json:"authorName"`
	CreatedAt    int64   `json:"createdAt" validate:"gte=0"`
	V            int     `json:"v" validate:"gte=0"`
	LikeCount    int     `json:"likeCount" validate:"gte=0"`
	IsPublic     bool    `json:"isPublic"`
	IsVerified   bool    `json:"isVerified"`
}

// MetadataOf copies the header fields of doc.
func MetadataOf(doc *models.Map) *Metadata {
	m := &Metadata{
		ID:          string(doc.ID),
		V:           doc.V,
		Name:        doc.Name,
		Description: doc.Description,
		IsPublic:    doc.IsPublic,
		IsVerified:  doc.IsVerified,
		AuthorID:    doc.AuthorID,
		AuthorName:  doc.AuthorName,
		CreatedAt:   doc.CreatedAt,
		LikeCount:   doc.LikeCount,
	}
	if doc.ThumbnailURL != nil {
		u := *doc.ThumbnailURL
		m.ThumbnailURL = &u
	}
	return m
}

// BuildMetadata returns the metadata doc is published with: attributed to
// author, stamped with the current time, unverified and without likes.
func BuildMetadata(doc *models.Map, author Author, clock clockwork.Clock) (*Metadata, error) {
	m := MetadataOf(doc)
	m.AuthorID = author.ID
	m.AuthorName = author.Name
	m.CreatedAt = clock.Now().UnixMilli()
	m.IsVerified = false
	m.LikeCount = 0
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metadata) Validate() error {
	return defaultValidator.Validate(m)
}

// ApplyTo copies the metadata fields onto doc.
func (m *Metadata) ApplyTo(doc *models.Map) {
	doc.ID = models.GUID(m.ID)
	doc.V = m.V
	doc.Name = m.Name
	doc.Description = m.Description
	doc.IsPublic = m.IsPublic
	doc.IsVerified = m.IsVerified
	doc.AuthorID = m.AuthorID
	doc.AuthorName = m.AuthorName
	doc.CreatedAt = m.CreatedAt
	doc.LikeCount = m.LikeCount
	doc.ThumbnailURL = nil
	if m.ThumbnailURL != nil {
		u := *m.ThumbnailURL
		doc.ThumbnailURL = &u
	}
}

// Entry returns the catalog record for the map stored at objectKey.
func (m *Metadata) Entry(objectKey string) *database.MapEntry {
	return &database.MapEntry{
		ThumbnailURL: m.ThumbnailURL,
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		AuthorID:     m.AuthorID,
		AuthorName:   m.AuthorName,
		ObjectKey:    objectKey,
		CreatedAt:    m.CreatedAt,
		V:            m.V,
		LikeCount:    m.LikeCount,
		IsPublic:     m.IsPublic,
		IsVerified:   m.IsVerified,
	}
}
