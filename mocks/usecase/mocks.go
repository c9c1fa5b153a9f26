// Package usecase provides testify mocks for the interfaces consumed by the
// use case layer.
package usecase

import (
	"context"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockURLRepository struct {
	mock.Mock
}

func (m *MockURLRepository) Save(ctx context.Context, owner entity.Owner, shortCode, originalURL string, expiry *time.Time) (*entity.URLRecord, error) {
	args := m.Called(ctx, owner, shortCode, originalURL, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLRepository) RetrieveByCode(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLRepository) RetrieveAndCount(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

func (m *MockURLRepository) Remove(ctx context.Context, id int64, owner entity.Owner) (*entity.URLRecord, error) {
	args := m.Called(ctx, id, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLRepository) ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.URLRecord), args.Error(1)
}

type MockURLCache struct {
	mock.Mock
}

func (m *MockURLCache) Get(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.URLRecord), args.Error(1)
}

func (m *MockURLCache) Set(ctx context.Context, rec *entity.URLRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockURLCache) Invalidate(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Totals(ctx context.Context, userID int64) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalyticsRepository) Top(ctx context.Context, userID int64, limit int) ([]entity.URLRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.URLRecord), args.Error(1)
}

func (m *MockAnalyticsRepository) RecentCount(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) DayStats(ctx context.Context, userID int64, since time.Time) ([]entity.DayStat, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DayStat), args.Error(1)
}

// MockCodeGenerator mocks shortcode.Generator so tests can force collisions.
type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Generate(length int) (string, error) {
	args := m.Called(length)
	return args.String(0), args.Error(1)
}
