package users

import (
	"context"

	"github.com/radiolab/radiometer-auth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
}
