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
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/LevelImposter/lim-core/pkg/database/catalogdb"
	"github.com/LevelImposter/lim-core/pkg/database/objstore"
	"github.com/LevelImposter/lim-core/pkg/maps/ids"
	"github.com/LevelImposter/lim-core/pkg/maps/models"
	"github.com/LevelImposter/lim-core/pkg/maps/normalize"
	"github.com/LevelImposter/lim-core/pkg/testing/fixtures"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const newMapID = "0d6f1a52-8c1e-4b7a-9f0e-5a4b3c2d1e0f"

var publishTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeObjects struct {
	objects map[string][]byte
	failKey string
	mu      sync.Mutex
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Put(ctx context.Context, key string, data []byte, progress database.ProgressFunc) error {
	if key == f.failKey {
		return errors.New("bucket unavailable")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	half := int64(len(data) / 2)
	if progress != nil {
		progress(half, int64(len(data)))
		progress(int64(len(data)), int64(len(data)))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeObjects) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return data, nil
}

type fakeCatalog struct {
	entries map[string]*database.MapEntry
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{entries: make(map[string]*database.MapEntry)}
}

func (f *fakeCatalog) PutMap(_ context.Context, entry *database.MapEntry) error {
	e := *entry
	f.entries[entry.ID] = &e
	return nil
}

func (f *fakeCatalog) GetMap(_ context.Context, id string) (*database.MapEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return e, nil
}

func normalizedLegacy(t *testing.T) *models.Map {
	t.Helper()
	doc, err := normalize.New(normalize.WithGenerator(ids.Sequential("asset"))).Normalize(fixtures.NewLegacyMap())
	require.NoError(t, err)
	return doc
}

func newPublisher(objects ObjectStore, catalog Catalog) *Publisher {
	return &Publisher{
		Objects: objects,
		Catalog: catalog,
		Clock:   clockwork.NewFakeClockAt(publishTime),
		IDs:     func() models.GUID { return newMapID },
	}
}

var author = Author{ID: "uid-1", Name: "Builder"}

func TestPublish_UploadsAndRecords(t *testing.T) {
	t.Parallel()

	objects := newFakeObjects()
	catalog := newFakeCatalog()
	p := newPublisher(objects, catalog)
	doc := normalizedLegacy(t)

	res, err := p.Publish(context.Background(), doc, []byte("png"), Options{Author: author, Public: true})
	require.NoError(t, err)

	assert.Equal(t, "maps/uid-1/"+fixtures.MapID+".lim2", res.MapKey)
	assert.Equal(t, "maps/uid-1/"+fixtures.MapID+".png", res.ThumbKey)
	assert.Contains(t, objects.objects, res.MapKey)
	assert.Equal(t, []byte("png"), objects.objects[res.ThumbKey])

	entry, err := catalog.GetMap(context.Background(), fixtures.MapID)
	require.NoError(t, err)
	assert.Equal(t, res.MapKey, entry.ObjectKey)
	assert.Equal(t, "uid-1", entry.AuthorID)
	assert.Equal(t, "Builder", entry.AuthorName)
	assert.Equal(t, publishTime.UnixMilli(), entry.CreatedAt)
	assert.True(t, entry.IsPublic)
	assert.False(t, entry.IsVerified)
	require.NotNil(t, entry.ThumbnailURL)
	assert.Equal(t, res.ThumbKey, *entry.ThumbnailURL)

	// the input document is untouched
	assert.Equal(t, fixtures.AuthorID, doc.AuthorID)
}

func TestPublish_NewID(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	p := newPublisher(newFakeObjects(), catalog)

	res, err := p.Publish(context.Background(), normalizedLegacy(t), nil, Options{Author: author, NewID: true})
	require.NoError(t, err)
	assert.Equal(t, models.GUID(newMapID), res.Map.ID)
	assert.Empty(t, res.ThumbKey)
	assert.Nil(t, res.Metadata.ThumbnailURL)
	assert.Contains(t, catalog.entries, newMapID)
}

func TestPublish_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc    func(t *testing.T) *models.Map
		target error
		name   string
		opts   Options
	}{
		{
			name:   "legacy document",
			doc:    func(*testing.T) *models.Map { return fixtures.NewLegacyMap() },
			opts:   Options{Author: author},
			target: ErrNotNormalized,
		},
		{
			name:   "nil document",
			doc:    func(*testing.T) *models.Map { return nil },
			opts:   Options{Author: author},
			target: ErrNilMap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			catalog := newFakeCatalog()
			_, err := newPublisher(newFakeObjects(), catalog).Publish(context.Background(), tt.doc(t), nil, tt.opts)
			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, catalog.entries)
		})
	}
}

func TestPublish_DanglingReference(t *testing.T) {
	t.Parallel()

	doc := normalizedLegacy(t)
	doc.Assets = doc.Assets[1:]

	_, err := newPublisher(newFakeObjects(), newFakeCatalog()).Publish(context.Background(), doc, nil, Options{Author: author})
	require.ErrorContains(t, err, "failed to verify asset references")
}

func TestPublish_InvalidMetadata(t *testing.T) {
	t.Parallel()

	doc := normalizedLegacy(t)
	doc.Name = "   "

	_, err := newPublisher(newFakeObjects(), newFakeCatalog()).Publish(context.Background(), doc, nil, Options{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"Name", "AuthorID"}, fields)
	assert.Contains(t, err.Error(), "authorid is required")
}

func TestPublish_UploadFailureSkipsCatalog(t *testing.T) {
	t.Parallel()

	objects := newFakeObjects()
	objects.failKey = ThumbnailKey(author.ID, fixtures.MapID)
	catalog := newFakeCatalog()

	_, err := newPublisher(objects, catalog).Publish(context.Background(), normalizedLegacy(t), []byte("png"),
		Options{Author: author})
	require.ErrorContains(t, err, "failed to upload thumbnail")
	assert.Empty(t, catalog.entries)
}

func TestPublish_Progress(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		reports []Progress
	)
	p := newPublisher(newFakeObjects(), newFakeCatalog())
	p.OnProgress = func(pr Progress) {
		mu.Lock()
		defer mu.Unlock()
		reports = append(reports, pr)
	}

	res, err := p.Publish(context.Background(), normalizedLegacy(t), []byte("thumbnail"), Options{Author: author})
	require.NoError(t, err)

	require.Len(t, reports, 4)
	last := reports[len(reports)-1]
	assert.Equal(t, last.Total, last.Done)
	assert.InDelta(t, 1.0, last.Fraction(), 1e-9)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i].Done, reports[i-1].Done)
	}
	assert.NotEmpty(t, res.MapKey)
}

func TestPublish_FetchRoundTrip(t *testing.T) {
	t.Parallel()

	p := newPublisher(newFakeObjects(), newFakeCatalog())
	res, err := p.Publish(context.Background(), normalizedLegacy(t), nil, Options{Author: author})
	require.NoError(t, err)

	doc, entry, err := p.Fetch(context.Background(), res.Map.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Map, doc)
	assert.Equal(t, res.MapKey, entry.ObjectKey)

	_, _, err = p.Fetch(context.Background(), "missing")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestPublish_LocalStores(t *testing.T) {
	t.Parallel()

	store, err := objstore.OpenInDir(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	catalog := &catalogdb.CatalogDB{}
	require.NoError(t, catalog.SetSQLForTesting(context.Background(), sqlDB))

	p := newPublisher(store, catalog)
	res, err := p.Publish(context.Background(), normalizedLegacy(t), []byte("png"), Options{Author: author, Public: true})
	require.NoError(t, err)

	found, err := catalog.SearchByName(context.Background(), "skeld", true)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, fixtures.MapID, found[0].ID)

	doc, _, err := p.Fetch(context.Background(), res.Map.ID)
	require.NoError(t, err)
	assert.Len(t, doc.Assets, 3)
}

func TestBuildMetadata(t *testing.T) {
	t.Parallel()

	doc := normalizedLegacy(t)
	doc.LikeCount = 12
	doc.IsVerified = true

	m, err := BuildMetadata(doc, author, clockwork.NewFakeClockAt(publishTime))
	require.NoError(t, err)
	assert.Equal(t, fixtures.MapID, m.ID)
	assert.Equal(t, "Skeld Remix", m.Name)
	assert.Equal(t, 0, m.LikeCount)
	assert.False(t, m.IsVerified)
	assert.Equal(t, publishTime.UnixMilli(), m.CreatedAt)
}

func TestMetadata_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Metadata {
		return &Metadata{ID: fixtures.MapID, Name: "Skeld", AuthorID: "uid"}
	}
	require.NoError(t, valid().Validate())

	long := valid()
	long.Name = strings.Repeat("é", MaxNameLength+1)
	require.Error(t, long.Validate())

	exact := valid()
	exact.Name = strings.Repeat("é", MaxNameLength)
	require.NoError(t, exact.Validate())

	badID := valid()
	badID.ID = "not-a-uuid"
	err := badID.Validate()
	require.ErrorContains(t, err, "id must be a UUID")
}
