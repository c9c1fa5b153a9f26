package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortlyhq/shortly/internal/entity"
)

// AnalyticsRepository runs the read-only aggregation queries behind the
// dashboard. All queries are scoped to one owner's records.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Totals returns the owner's record count and summed clicks.
func (r *AnalyticsRepository) Totals(ctx context.Context, userID int64) (totalURLs, totalClicks int64, err error) {
	const op = "adapter.repository.postgres.AnalyticsRepository.Totals"
	const query = `SELECT COUNT(*), COALESCE(SUM(clicks), 0) FROM urls WHERE owner_id = $1`

	row := r.db.QueryRowxContext(ctx, query, userID)
	if err := row.Scan(&totalURLs, &totalClicks); err != nil {
		return 0, 0, fmt.Errorf("%s: failed to aggregate urls table: %w", op, err)
	}

	return totalURLs, totalClicks, nil
}

// Top returns the owner's most clicked records, ties broken by most recent creation.
func (r *AnalyticsRepository) Top(ctx context.Context, userID int64, limit int) ([]entity.URLRecord, error) {
	const op = "adapter.repository.postgres.AnalyticsRepository.Top"
	const query = `SELECT * FROM urls WHERE owner_id = $1 ORDER BY clicks DESC, created_at DESC LIMIT $2`

	var rows []urlRow

	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("%s: failed to select from urls table: %w", op, err)
	}

	records := make([]entity.URLRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row.toEntity())
	}

	return records, nil
}

// RecentCount counts the owner's records created at or after since.
func (r *AnalyticsRepository) RecentCount(ctx context.Context, userID int64, since time.Time) (int64, error) {
	const op = "adapter.repository.postgres.AnalyticsRepository.RecentCount"
	const query = `SELECT COUNT(*) FROM urls WHERE owner_id = $1 AND created_at >= $2`

	var count int64

	if err := r.db.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("%s: failed to count urls table rows: %w", op, err)
	}

	return count, nil
}

// DayStats buckets the owner's records created at or after since by creation
// day. A record's full click total lands in its creation-day bucket: there is
// no per-click timestamp log, so the series approximates daily traffic rather
// than measuring it. Days without creations are absent and get zero-filled by
// the caller.
func (r *AnalyticsRepository) DayStats(ctx context.Context, userID int64, since time.Time) ([]entity.DayStat, error) {
	const op = "adapter.repository.postgres.AnalyticsRepository.DayStats"
	const query = `SELECT DATE(created_at) AS day, COALESCE(SUM(clicks), 0) AS clicks, COUNT(*) AS creations
		FROM urls
		WHERE owner_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.QueryxContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to aggregate urls table: %w", op, err)
	}
	defer rows.Close()

	var stats []entity.DayStat

	for rows.Next() {
		var stat entity.DayStat

		if err := rows.Scan(&stat.Date, &stat.Clicks, &stat.Creations); err != nil {
			return nil, fmt.Errorf("%s: failed to scan aggregated row: %w", op, err)
		}

		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to iterate aggregated rows: %w", op, err)
	}

	return stats, nil
}
