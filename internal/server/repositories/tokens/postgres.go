// Package tokens persists revocation records for administratively issued
// tokens. Session tokens from the login flow are never stored here.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/radiolab/radiometer-auth/internal/common"
	"github.com/radiolab/radiometer-auth/internal/dbx"
	"github.com/radiolab/radiometer-auth/internal/server/models"
)

// uniqueViolation is the postgres error code for duplicate-key inserts.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new, non-revoked record keyed by the token string.
// A duplicate token string yields common.ErrorConflict; the codec's token
// IDs make this effectively impossible, but it must be handled, not assumed
// away.
func (r *PostgresRepository) Create(ctx context.Context, token string, emittedAt, expiresAt time.Time) error {

	query :=
		`INSERT INTO service_tokens (token, emitted_at, expires_at, revoked)
         VALUES ($1, $2, $3, false)
		 `

	_, err := r.db.ExecContext(ctx, query, token, emittedAt, expiresAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.ServiceToken, error) {
	query :=
		`SELECT token, emitted_at, expires_at, revoked FROM service_tokens
		 WHERE token = $1
		 `

	record := &models.ServiceToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&record.Token, &record.EmittedAt, &record.ExpiresAt, &record.Revoked)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

// Revoke sets the revoked flag. Idempotent: revoking an already revoked
// token is a no-op, revoking an unknown token is common.ErrorNotFound.
func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	query :=
		`UPDATE service_tokens SET revoked = true
		 WHERE token = $1
		 `

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// DeleteExpired removes records whose expiration has passed and returns the
// number of rows removed. Housekeeping only; validation never depends on it.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query :=
		`DELETE FROM service_tokens
		 WHERE expires_at < now()
		 `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
