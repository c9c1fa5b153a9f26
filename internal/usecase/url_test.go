package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	mocks "github.com/shortlyhq/shortly/mocks/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	fixedNow    time.Time
	urlRepoMock *mocks.MockURLRepository
	cacheMock   *mocks.MockURLCache
	genMock     *mocks.MockCodeGenerator
	uc          *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.fixedNow = time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = new(mocks.MockURLRepository)
	suite.cacheMock = new(mocks.MockURLCache)
	suite.genMock = new(mocks.MockCodeGenerator)

	suite.uc = NewURLUseCase(suite.urlRepoMock, suite.cacheMock, suite.genMock, 7)
	suite.uc.now = func() time.Time { return suite.fixedNow }
}

func (suite *URLUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
	suite.cacheMock.AssertExpectations(suite.T())
	suite.genMock.AssertExpectations(suite.T())
}

func (suite *URLUseCaseTestSuite) TestShorten() {
	owner := entity.OwnedBy(1)

	suite.Run("invalid original url", func() {
		for _, originalURL := range []string{"", "not a url", "/relative/path", "example.com/no/scheme"} {
			rec, err := suite.uc.Shorten(context.Background(), owner, originalURL, nil)

			suite.Error(err)
			suite.ErrorIs(err, entity.ErrInvalidURL)
			suite.Nil(rec)
		}
	})

	suite.Run("expiry date in the past", func() {
		expiry := suite.fixedNow.Add(-time.Hour)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", &expiry)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrInvalidExpiry)
		suite.Nil(rec)
	})

	suite.Run("short code generation error", func() {
		suite.genMock.
			On("Generate", 7).
			Once().
			Return("", suite.errUnknown)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(rec)
	})

	suite.Run("maximum retries error", func() {
		suite.genMock.
			On("Generate", 7).
			Times(5).
			Return("collide", nil)
		suite.urlRepoMock.
			On("Save", context.Background(), owner, "collide", "https://example.com", (*time.Time)(nil)).
			Times(5).
			Return(nil, entity.ErrShortCodeExists)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(rec)
	})

	suite.Run("retries after collision", func() {
		suite.genMock.
			On("Generate", 7).
			Twice().
			Return("abc1234", nil)
		suite.urlRepoMock.
			On("Save", context.Background(), owner, "abc1234", "https://example.com", (*time.Time)(nil)).
			Once().
			Return(nil, entity.ErrShortCodeExists)
		suite.urlRepoMock.
			On("Save", context.Background(), owner, "abc1234", "https://example.com", (*time.Time)(nil)).
			Once().
			Return(&entity.URLRecord{ShortCode: "abc1234", OriginalURL: "https://example.com"}, nil)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", nil)

		suite.NoError(err)
		suite.NotNil(rec)
		suite.Equal("abc1234", rec.ShortCode)
	})

	suite.Run("unknown error", func() {
		suite.genMock.
			On("Generate", 7).
			Once().
			Return("abc1234", nil)
		suite.urlRepoMock.
			On("Save", context.Background(), owner, "abc1234", "https://example.com", (*time.Time)(nil)).
			Once().
			Return(nil, suite.errUnknown)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(rec)
	})

	suite.Run("success", func() {
		expiry := suite.fixedNow.Add(24 * time.Hour)

		suite.genMock.
			On("Generate", 7).
			Once().
			Return("abc1234", nil)
		suite.urlRepoMock.
			On("Save", context.Background(), owner, "abc1234", "https://example.com", &expiry).
			Once().
			Return(&entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com", ExpiryDate: &expiry}, nil)

		rec, err := suite.uc.Shorten(context.Background(), owner, "https://example.com", &expiry)

		suite.NoError(err)
		suite.NotNil(rec)
		suite.Equal("abc1234", rec.ShortCode)
	})
}

func (suite *URLUseCaseTestSuite) TestResolve() {
	suite.Run("cache hit", func() {
		cached := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com"}

		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(cached, nil)
		suite.urlRepoMock.
			On("IncrementClicks", context.Background(), "abc1234").
			Once().
			Return(nil)

		rec, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.NoError(err)
		suite.Equal(cached, rec)
	})

	suite.Run("cache hit on expired record", func() {
		expiry := suite.fixedNow.Add(-time.Hour)
		cached := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com", ExpiryDate: &expiry}

		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(cached, nil)

		rec, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLExpired)
		suite.Nil(rec)
		suite.urlRepoMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})

	suite.Run("cache hit on record deleted since caching", func() {
		cached := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com"}

		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(cached, nil)
		suite.urlRepoMock.
			On("IncrementClicks", context.Background(), "abc1234").
			Once().
			Return(entity.ErrURLNotFound)
		suite.cacheMock.
			On("Invalidate", context.Background(), "abc1234").
			Once().
			Return(nil)

		rec, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(rec)
	})

	suite.Run("cache error falls through to store", func() {
		rec := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com", Clicks: 1}

		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(nil, suite.errUnknown)
		suite.urlRepoMock.
			On("RetrieveAndCount", context.Background(), "abc1234").
			Once().
			Return(rec, nil)
		suite.cacheMock.
			On("Set", context.Background(), rec).
			Once().
			Return(nil)

		got, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.NoError(err)
		suite.Equal(rec, got)
	})

	suite.Run("cache miss fills cache", func() {
		rec := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com", Clicks: 1}

		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(nil, nil)
		suite.urlRepoMock.
			On("RetrieveAndCount", context.Background(), "abc1234").
			Once().
			Return(rec, nil)
		suite.cacheMock.
			On("Set", context.Background(), rec).
			Once().
			Return(nil)

		got, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.NoError(err)
		suite.Equal(rec, got)
	})

	suite.Run("url not found", func() {
		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(nil, nil)
		suite.urlRepoMock.
			On("RetrieveAndCount", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLNotFound)

		rec, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(rec)
	})

	suite.Run("url expired", func() {
		suite.cacheMock.
			On("Get", context.Background(), "abc1234").
			Once().
			Return(nil, nil)
		suite.urlRepoMock.
			On("RetrieveAndCount", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLExpired)

		rec, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLExpired)
		suite.Nil(rec)
	})

	suite.Run("without cache", func() {
		suite.uc = NewURLUseCase(suite.urlRepoMock, nil, suite.genMock, 7)

		rec := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com", Clicks: 1}

		suite.urlRepoMock.
			On("RetrieveAndCount", context.Background(), "abc1234").
			Once().
			Return(rec, nil)

		got, err := suite.uc.Resolve(context.Background(), "abc1234")

		suite.NoError(err)
		suite.Equal(rec, got)
	})
}

func (suite *URLUseCaseTestSuite) TestLookup() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByCode", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLNotFound)

		rec, err := suite.uc.Lookup(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(rec)
	})

	suite.Run("success", func() {
		rec := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com"}

		suite.urlRepoMock.
			On("RetrieveByCode", context.Background(), "abc1234").
			Once().
			Return(rec, nil)

		got, err := suite.uc.Lookup(context.Background(), "abc1234")

		suite.NoError(err)
		suite.Equal(rec, got)
	})
}

func (suite *URLUseCaseTestSuite) TestDelete() {
	owner := entity.OwnedBy(1)

	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("Remove", context.Background(), int64(1), owner).
			Once().
			Return(nil, entity.ErrURLNotFound)

		err := suite.uc.Delete(context.Background(), 1, owner)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
	})

	suite.Run("permission denied", func() {
		suite.urlRepoMock.
			On("Remove", context.Background(), int64(1), owner).
			Once().
			Return(nil, entity.ErrPermissionDenied)

		err := suite.uc.Delete(context.Background(), 1, owner)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrPermissionDenied)
		suite.cacheMock.AssertNotCalled(suite.T(), "Invalidate", mock.Anything, mock.Anything)
	})

	suite.Run("success invalidates cache", func() {
		rec := &entity.URLRecord{ID: 1, ShortCode: "abc1234", OriginalURL: "https://example.com"}

		suite.urlRepoMock.
			On("Remove", context.Background(), int64(1), owner).
			Once().
			Return(rec, nil)
		suite.cacheMock.
			On("Invalidate", context.Background(), "abc1234").
			Once().
			Return(nil)

		err := suite.uc.Delete(context.Background(), 1, owner)

		suite.NoError(err)
	})
}

func (suite *URLUseCaseTestSuite) TestListByOwner() {
	suite.Run("anonymous owner denied", func() {
		records, err := suite.uc.ListByOwner(context.Background(), entity.Anonymous())

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrPermissionDenied)
		suite.Nil(records)
	})

	suite.Run("success", func() {
		owner := entity.OwnedBy(1)
		expected := []entity.URLRecord{
			{ID: 2, ShortCode: "newer12"},
			{ID: 1, ShortCode: "older12"},
		}

		suite.urlRepoMock.
			On("ListByOwner", context.Background(), owner).
			Once().
			Return(expected, nil)

		records, err := suite.uc.ListByOwner(context.Background(), owner)

		suite.NoError(err)
		suite.Equal(expected, records)
	})
}

func TestURLUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}
