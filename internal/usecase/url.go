// Package usecase holds the business logic: shortening with bounded retry on
// code collisions, redirect resolution with the expiry policy, owner-scoped
// listing and deletion, and the analytics aggregation.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/pkg/shortcode"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

const maxOriginalURLLength = 500

// URLRepository defines the record store operations the business logic needs.
type URLRepository interface {
	// Save atomically inserts a new record, returning entity.ErrShortCodeExists
	// on a short code collision.
	Save(ctx context.Context, owner entity.Owner, shortCode, originalURL string, expiry *time.Time) (*entity.URLRecord, error)

	// RetrieveByCode fetches a record without counting a redirect.
	RetrieveByCode(ctx context.Context, shortCode string) (*entity.URLRecord, error)

	// RetrieveAndCount resolves a short code, atomically counting the redirect.
	// Returns entity.ErrURLNotFound or entity.ErrURLExpired on the failure paths,
	// which leave the counter untouched.
	RetrieveAndCount(ctx context.Context, shortCode string) (*entity.URLRecord, error)

	// IncrementClicks atomically counts a redirect resolved outside the store.
	IncrementClicks(ctx context.Context, shortCode string) error

	// Remove deletes a record after checking that owner owns it.
	Remove(ctx context.Context, id int64, owner entity.Owner) (*entity.URLRecord, error)

	// ListByOwner returns the owner's records ordered by creation time descending.
	ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error)
}

// URLCache is an optional read-through cache for the redirect path.
type URLCache interface {
	Get(ctx context.Context, shortCode string) (*entity.URLRecord, error)
	Set(ctx context.Context, rec *entity.URLRecord) error
	Invalidate(ctx context.Context, shortCode string) error
}

// URLUseCase implements shortening, resolution, listing and deletion on top of
// the record store.
type URLUseCase struct {
	repo       URLRepository
	cache      URLCache
	gen        shortcode.Generator
	codeLength int
	now        func() time.Time
}

// NewURLUseCase wires the use case. cache may be nil to disable caching; the
// generator is injected so tests can force collisions.
func NewURLUseCase(repo URLRepository, cache URLCache, gen shortcode.Generator, codeLength int) *URLUseCase {
	return &URLUseCase{
		repo:       repo,
		cache:      cache,
		gen:        gen,
		codeLength: codeLength,
		now:        time.Now,
	}
}

func validateOriginalURL(originalURL string) error {
	if originalURL == "" || len(originalURL) > maxOriginalURLLength {
		return entity.ErrInvalidURL
	}

	u, err := url.Parse(originalURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return entity.ErrInvalidURL
	}

	return nil
}

// Shorten validates the submission, generates a candidate code and persists
// the record. The store is the uniqueness arbiter: on a collision a fresh code
// is generated, up to a bounded number of attempts.
func (uc *URLUseCase) Shorten(ctx context.Context, owner entity.Owner, originalURL string, expiry *time.Time) (*entity.URLRecord, error) {
	const op = "usecase.URLUseCase.Shorten"
	const maxRetries = 5

	if err := validateOriginalURL(originalURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if expiry != nil && !expiry.After(uc.now()) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidExpiry)
	}

	for i := 0; i < maxRetries; i++ {
		code, err := uc.gen.Generate(uc.codeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		rec, err := uc.repo.Save(ctx, owner, code, originalURL, expiry)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return rec, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Resolve returns the record behind a short code and counts the redirect.
// Exactly one increment happens per successful resolution and none on the
// NotFound and Expired paths. Cache failures are soft: the store always
// settles the result.
func (uc *URLUseCase) Resolve(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "usecase.URLUseCase.Resolve"

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, shortCode)
		if err == nil && cached != nil {
			if cached.ExpiredAt(uc.now()) {
				return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
			}

			if err := uc.repo.IncrementClicks(ctx, shortCode); err != nil {
				if errors.Is(err, entity.ErrURLNotFound) {
					// deleted since it was cached
					_ = uc.cache.Invalidate(ctx, shortCode)
					return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
				}

				return nil, fmt.Errorf("%s: failed to count redirect: %w", op, err)
			}

			return cached, nil
		}
	}

	rec, err := uc.repo.RetrieveAndCount(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, rec)
	}

	return rec, nil
}

// Lookup fetches a record by its short code without counting a redirect, for
// the QR endpoints and similar read-only views.
func (uc *URLUseCase) Lookup(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "usecase.URLUseCase.Lookup"

	rec, err := uc.repo.RetrieveByCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to look up short code: %w", op, err)
	}

	return rec, nil
}

// Delete removes one of the owner's records and drops it from the cache.
func (uc *URLUseCase) Delete(ctx context.Context, id int64, owner entity.Owner) error {
	const op = "usecase.URLUseCase.Delete"

	rec, err := uc.repo.Remove(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, err)
	}

	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, rec.ShortCode)
	}

	return nil
}

// ListByOwner returns the owner's records, newest first.
func (uc *URLUseCase) ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error) {
	const op = "usecase.URLUseCase.ListByOwner"

	if owner.IsAnonymous() {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPermissionDenied)
	}

	records, err := uc.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return records, nil
}
