// Package auditlog persists audit entries emitted by the auth flow.
package auditlog

import (
	"context"
	"fmt"

	"github.com/radiolab/radiometer-auth/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, component, category, message string) error {

	query :=
		`INSERT INTO audit_log (component, category, message)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, component, category, message)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
