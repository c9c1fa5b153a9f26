// Package postgres implements the record store on top of sqlx. Short code
// uniqueness is enforced by the table's unique index, and click counting is a
// single UPDATE so concurrent redirects never lose increments.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shortlyhq/shortly/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type urlRow struct {
	ID          int64         `db:"id"`
	OwnerID     sql.NullInt64 `db:"owner_id"`
	ShortCode   string        `db:"short_code"`
	OriginalURL string        `db:"original_url"`
	Clicks      int64         `db:"clicks"`
	CreatedAt   time.Time     `db:"created_at"`
	ExpiryDate  sql.NullTime  `db:"expiry_date"`
}

func (u *urlRow) toEntity() *entity.URLRecord {
	rec := &entity.URLRecord{
		ID:          u.ID,
		Owner:       entity.Anonymous(),
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		Clicks:      u.Clicks,
		CreatedAt:   u.CreatedAt,
	}

	if u.OwnerID.Valid {
		rec.Owner = entity.OwnedBy(u.OwnerID.Int64)
	}

	if u.ExpiryDate.Valid {
		expiry := u.ExpiryDate.Time
		rec.ExpiryDate = &expiry
	}

	return rec
}

func ownerID(owner entity.Owner) sql.NullInt64 {
	if id, ok := owner.UserID(); ok {
		return sql.NullInt64{Int64: id, Valid: true}
	}
	return sql.NullInt64{}
}

func expiryDate(expiry *time.Time) sql.NullTime {
	if expiry != nil {
		return sql.NullTime{Time: *expiry, Valid: true}
	}
	return sql.NullTime{}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

// Save inserts a new record. A short code collision surfaces as
// entity.ErrShortCodeExists for the caller to retry with a fresh code.
func (r *URLRepository) Save(ctx context.Context, owner entity.Owner, shortCode, originalURL string, expiry *time.Time) (*entity.URLRecord, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(owner_id, short_code, original_url, expiry_date) VALUES ($1, $2, $3, $4) RETURNING *`

	var row urlRow

	if err := r.db.GetContext(ctx, &row, query, ownerID(owner), shortCode, originalURL, expiryDate(expiry)); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return row.toEntity(), nil
}

// RetrieveByCode fetches a record by its short code without touching the click counter.
func (r *URLRepository) RetrieveByCode(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByCode"
	const query = `SELECT * FROM urls WHERE short_code = $1`

	var row urlRow

	if err := r.db.GetContext(ctx, &row, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return row.toEntity(), nil
}

// RetrieveAndCount resolves a short code on the redirect path. The increment
// and the expiry check are one conditional UPDATE, so the counter moves
// exactly once per successful resolution and never on the failure paths. Only
// when the UPDATE matches nothing does a second lookup distinguish a missing
// record from an expired one.
func (r *URLRepository) RetrieveAndCount(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveAndCount"
	const query = `UPDATE urls SET clicks = clicks + 1
		WHERE short_code = $1 AND (expiry_date IS NULL OR expiry_date > now())
		RETURNING *`

	var row urlRow

	err := r.db.GetContext(ctx, &row, query, shortCode)
	if err == nil {
		return row.toEntity(), nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	if _, err := r.RetrieveByCode(ctx, shortCode); err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to check missed short code: %w", op, err)
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
}

// IncrementClicks counts one redirect for a record already resolved elsewhere,
// e.g. from the cache.
func (r *URLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementClicks"
	const query = `UPDATE urls SET clicks = clicks + 1 WHERE short_code = $1`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}

// Remove deletes a record after verifying ownership. The check lives here, not
// in the caller, so a new caller cannot bypass it. Records created anonymously
// are deletable by no one.
func (r *URLRepository) Remove(ctx context.Context, id int64, owner entity.Owner) (*entity.URLRecord, error) {
	const op = "adapter.repository.postgres.URLRepository.Remove"
	const selectQuery = `SELECT * FROM urls WHERE id = $1`
	const deleteQuery = `DELETE FROM urls WHERE id = $1 AND owner_id = $2`

	var row urlRow

	if err := r.db.GetContext(ctx, &row, selectQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	requesterID, ok := owner.UserID()
	if !ok || !row.OwnerID.Valid || row.OwnerID.Int64 != requesterID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPermissionDenied)
	}

	res, err := r.db.ExecContext(ctx, deleteQuery, id, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return row.toEntity(), nil
}

// ListByOwner returns the owner's records, newest first.
func (r *URLRepository) ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error) {
	const op = "adapter.repository.postgres.URLRepository.ListByOwner"
	const query = `SELECT * FROM urls WHERE owner_id = $1 ORDER BY created_at DESC`

	id, ok := owner.UserID()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPermissionDenied)
	}

	var rows []urlRow

	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("%s: failed to select from urls table: %w", op, err)
	}

	records := make([]entity.URLRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row.toEntity())
	}

	return records, nil
}
