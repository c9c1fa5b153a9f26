package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
)

const (
	topURLLimit       = 5
	recentWindowDays  = 7
	defaultSeriesDays = 7
)

// AnalyticsRepository defines the read-only aggregation queries behind the dashboard.
type AnalyticsRepository interface {
	Totals(ctx context.Context, userID int64) (totalURLs, totalClicks int64, err error)
	Top(ctx context.Context, userID int64, limit int) ([]entity.URLRecord, error)
	RecentCount(ctx context.Context, userID int64, since time.Time) (int64, error)
	DayStats(ctx context.Context, userID int64, since time.Time) ([]entity.DayStat, error)
}

// AnalyticsUseCase computes per-owner summary statistics and the per-day
// series. Aggregation is strictly scoped to the requesting owner's records.
type AnalyticsUseCase struct {
	repo AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsUseCase(repo AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// Summary returns the owner's dashboard numbers: totals, the top records by
// clicks and the count of records created within the trailing window.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, owner entity.Owner) (*entity.OwnerSummary, error) {
	const op = "usecase.AnalyticsUseCase.Summary"

	userID, ok := owner.UserID()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPermissionDenied)
	}

	totalURLs, totalClicks, err := uc.repo.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get totals: %w", op, err)
	}

	topURLs, err := uc.repo.Top(ctx, userID, topURLLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get top urls: %w", op, err)
	}

	since := uc.now().AddDate(0, 0, -recentWindowDays)

	recentCount, err := uc.repo.RecentCount(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get recent count: %w", op, err)
	}

	return &entity.OwnerSummary{
		TotalURLs:   totalURLs,
		TotalClicks: totalClicks,
		TopURLs:     topURLs,
		RecentCount: recentCount,
	}, nil
}

// TimeSeries returns one bucket per day over the trailing window, oldest
// first, with days lacking any creations zero-filled. Clicks are attributed
// to each record's creation date (see entity.DayStat).
func (uc *AnalyticsUseCase) TimeSeries(ctx context.Context, owner entity.Owner, days int) ([]entity.DayStat, error) {
	const op = "usecase.AnalyticsUseCase.TimeSeries"

	userID, ok := owner.UserID()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPermissionDenied)
	}

	if days <= 0 {
		days = defaultSeriesDays
	}

	today := uc.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	stats, err := uc.repo.DayStats(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get day stats: %w", op, err)
	}

	byDay := make(map[time.Time]entity.DayStat, len(stats))
	for _, stat := range stats {
		byDay[stat.Date.UTC().Truncate(24*time.Hour)] = stat
	}

	series := make([]entity.DayStat, 0, days)
	for day := since; !day.After(today); day = day.AddDate(0, 0, 1) {
		stat, ok := byDay[day]
		if !ok {
			stat = entity.DayStat{}
		}
		stat.Date = day

		series = append(series, stat)
	}

	return series, nil
}
