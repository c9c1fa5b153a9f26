// Package http provides testify mocks for the interfaces consumed by the HTTP
// delivery layer.
package http

import (
	"context"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockURLUseCase struct {
	mock.Mock
}

func (m *MockURLUseCase) Shorten(ctx context.Context, owner entity.Owner, originalURL string, expiry *time.Time) (*entity.URLRecord, error) {
	args := m.Called(ctx, owner, originalURL, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLUseCase) Resolve(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLUseCase) Lookup(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLUseCase) Delete(ctx context.Context, id int64, owner entity.Owner) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}

func (m *MockURLUseCase) ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.URLRecord), args.Error(1)
}

type MockAnalyticsUseCase struct {
	mock.Mock
}

func (m *MockAnalyticsUseCase) Summary(ctx context.Context, owner entity.Owner) (*entity.OwnerSummary, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OwnerSummary), args.Error(1)
}

func (m *MockAnalyticsUseCase) TimeSeries(ctx context.Context, owner entity.Owner, days int) ([]entity.DayStat, error) {
	args := m.Called(ctx, owner, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DayStat), args.Error(1)
}
