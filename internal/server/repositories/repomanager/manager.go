package repomanager

import (
	"context"
	"database/sql"

	"github.com/radiolab/radiometer-auth/internal/dbx"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/auditlog"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/tokens"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}
