package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
)

type AnalyticsRepositoryTestSuite struct {
	suite.Suite
	errUnknown error
	mock       sqlmock.Sqlmock
	repo       *AnalyticsRepository
}

func (suite *AnalyticsRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *AnalyticsRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.mock = mock
	suite.repo = NewAnalyticsRepository(db)
}

func (suite *AnalyticsRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *AnalyticsRepositoryTestSuite) TestTotals() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(clicks\), 0\) FROM urls`).
			WithArgs(int64(1)).
			WillReturnError(suite.errUnknown)

		totalURLs, totalClicks, err := suite.repo.Totals(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Zero(totalURLs)
		suite.Zero(totalClicks)
	})

	suite.Run("no records", func() {
		rows := sqlmock.NewRows([]string{"count", "coalesce"}).AddRow(0, 0)

		suite.mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(clicks\), 0\) FROM urls`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		totalURLs, totalClicks, err := suite.repo.Totals(context.Background(), 1)

		suite.NoError(err)
		suite.Zero(totalURLs)
		suite.Zero(totalClicks)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows([]string{"count", "coalesce"}).AddRow(3, 42)

		suite.mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(clicks\), 0\) FROM urls`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		totalURLs, totalClicks, err := suite.repo.Totals(context.Background(), 1)

		suite.NoError(err)
		suite.Equal(int64(3), totalURLs)
		suite.Equal(int64(42), totalClicks)
	})
}

func (suite *AnalyticsRepositoryTestSuite) TestTop() {
	columns := []string{"id", "owner_id", "short_code", "original_url", "clicks", "created_at", "expiry_date"}

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs(int64(1), 5).
			WillReturnError(suite.errUnknown)

		records, err := suite.repo.Top(context.Background(), 1, 5)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(records)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(columns).
			AddRow(1, int64(1), "most123", "https://example.com/1", 30, time.Time{}, nil).
			AddRow(2, int64(1), "less123", "https://example.com/2", 10, time.Time{}, nil)

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs(int64(1), 5).
			WillReturnRows(rows)

		records, err := suite.repo.Top(context.Background(), 1, 5)

		suite.NoError(err)
		suite.Len(records, 2)
		suite.Equal("most123", records[0].ShortCode)
		suite.Equal(int64(30), records[0].Clicks)
	})
}

func (suite *AnalyticsRepositoryTestSuite) TestRecentCount() {
	since := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM urls`).
			WithArgs(int64(1), since).
			WillReturnError(suite.errUnknown)

		count, err := suite.repo.RecentCount(context.Background(), 1, since)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Zero(count)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows([]string{"count"}).AddRow(7)

		suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM urls`).
			WithArgs(int64(1), since).
			WillReturnRows(rows)

		count, err := suite.repo.RecentCount(context.Background(), 1, since)

		suite.NoError(err)
		suite.Equal(int64(7), count)
	})
}

func (suite *AnalyticsRepositoryTestSuite) TestDayStats() {
	since := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT DATE\(created_at\)`).
			WithArgs(int64(1), since).
			WillReturnError(suite.errUnknown)

		stats, err := suite.repo.DayStats(context.Background(), 1, since)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(stats)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows([]string{"day", "clicks", "creations"}).
			AddRow(since, 12, 2).
			AddRow(since.AddDate(0, 0, 1), 3, 1)

		suite.mock.ExpectQuery(`SELECT DATE\(created_at\)`).
			WithArgs(int64(1), since).
			WillReturnRows(rows)

		stats, err := suite.repo.DayStats(context.Background(), 1, since)

		suite.NoError(err)
		suite.Len(stats, 2)
		suite.Equal(since, stats[0].Date)
		suite.Equal(int64(12), stats[0].Clicks)
		suite.Equal(int64(2), stats[0].Creations)
	})
}

func TestAnalyticsRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsRepositoryTestSuite))
}
