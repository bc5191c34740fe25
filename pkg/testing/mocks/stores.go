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

package mocks

import (
	"context"
	"fmt"

	"github.com/LevelImposter/lim-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of publish.ObjectStore using
// testify/mock
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, progress database.ProgressFunc) error {
	args := m.Called(ctx, key, data, progress)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return nil
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if data, ok := args.Get(0).([]byte); ok {
		return data, nil
	}
	return nil, nil
}

// MockCatalog is a mock implementation of publish.Catalog using
// testify/mock
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) PutMap(ctx context.Context, entry *database.MapEntry) error {
	args := m.Called(ctx, entry)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockCatalog) GetMap(ctx context.Context, id string) (*database.MapEntry, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if entry, ok := args.Get(0).(*database.MapEntry); ok {
		return entry, nil
	}
	return nil, nil
}
