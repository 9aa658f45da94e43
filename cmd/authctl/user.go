package main

import (
	"context"

	"github.com/radiolab/radiometer-auth/internal/common"
	"github.com/radiolab/radiometer-auth/internal/dbx"
	"github.com/radiolab/radiometer-auth/internal/server/hashing"
	"github.com/radiolab/radiometer-auth/internal/server/models"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/repomanager"
)

// saltBytes is the per-user salt size; the salt is stored hex-encoded, so
// the column holds twice as many characters.
const saltBytes = 16

// provisionUser generates a fresh salt, digests the password and inserts
// the account. The plaintext never reaches the database.
func provisionUser(ctx context.Context, db dbx.DBTX, login, password, role string) (*models.User, error) {
	salt, err := common.MakeRandHexString(saltBytes)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Login:          login,
		PasswordDigest: hashing.Digest(password, salt),
		Salt:           salt,
		Role:           role,
	}

	return repomanager.NewPostgresRepositoryManager().Users(db).Create(ctx, user)
}
