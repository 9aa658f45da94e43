package tokens

import (
	"context"
	"time"

	"github.com/radiolab/radiometer-auth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token string, emittedAt, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*models.ServiceToken, error)
	Revoke(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
