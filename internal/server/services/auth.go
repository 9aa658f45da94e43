// Package services implements the auth orchestration on top of the hash
// engine, token codec and postgres repositories. Every credential or token
// rejection surfaces as common.ErrorUnauthorized; infrastructure faults
// surface as common.ErrorUnavailable and are never masked as unauthorized.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radiolab/radiometer-auth/internal/common"
	"github.com/radiolab/radiometer-auth/internal/logging"
	"github.com/radiolab/radiometer-auth/internal/server/hashing"
	"github.com/radiolab/radiometer-auth/internal/server/models"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/repomanager"
	"github.com/radiolab/radiometer-auth/internal/server/token"
)

// AuthResult is returned from a successful Authenticate call.
type AuthResult struct {
	AccessToken string
	UserID      string
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *token.Codec
	audit       *AuditDispatcher
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *token.Codec, audit *AuditDispatcher, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		audit:       audit,
		logger:      logger.With("module", "auth_service"),
	}
}

// Authenticate verifies the login/password pair and issues a session token.
// Unknown logins and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*AuthResult, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorUnavailable
	}

	if !hashing.Verify(password, user.Salt, user.PasswordDigest) {
		return nil, common.ErrorUnauthorized
	}

	accessToken, _, err := s.codec.Issue(user.Login, user.Role)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	s.audit.Append("auth", "authorization", fmt.Sprintf("%s logged in", login))

	return &AuthResult{AccessToken: accessToken, UserID: user.ID}, nil
}

// ValidateIncoming verifies the token signature, issuer, audience and time
// bounds, and for administratively issued tokens additionally requires a
// live, non-revoked revocation record. Returns the decoded claims so the
// caller can apply role checks.
func (s *AuthService) ValidateIncoming(ctx context.Context, tokenString string) (*token.Claims, error) {

	claims, err := s.codec.ParseAndVerify(tokenString)
	if err != nil {
		s.logger.Warn(ctx, "token rejected", "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}

	if !claims.IsService() {
		// Session tokens are validated by signature and expiry alone;
		// they never have revocation state.
		return claims, nil
	}

	repo := s.repomanager.Tokens(s.db)

	record, err := repo.Find(ctx, tokenString)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A service token without a record was never legitimately
			// issued (or its record was purged); treat as invalid.
			s.logger.Warn(ctx, "token rejected", "reason", "service token has no issuance record")
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "revocation lookup failed", "error", err.Error())
		return nil, common.ErrorUnavailable
	}

	if record.Revoked {
		s.logger.Warn(ctx, "token rejected", "reason", common.ErrTokenRevoked.Error())
		return nil, common.ErrorUnauthorized
	}

	if record.ExpiresAt.Before(time.Now()) {
		s.logger.Warn(ctx, "token rejected", "reason", common.ErrTokenExpired.Error())
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}

// issueAttempts bounds how often a colliding token string is re-signed
// with a fresh ID before issuance is given up on.
const issueAttempts = 3

// IssueServiceToken signs a standing Researcher-role token and records it
// in the revocation store so it can be administratively invalidated later.
// A collision on the recorded token string is retried with a new token ID.
func (s *AuthService) IssueServiceToken(ctx context.Context) (string, error) {

	repo := s.repomanager.Tokens(s.db)

	for attempt := 0; attempt < issueAttempts; attempt++ {

		tokenString, claims, err := s.codec.IssueService(models.RoleResearcher)
		if err != nil {
			s.logger.Error(ctx, "token signing failed", "error", err.Error())
			return "", common.ErrorInternal
		}

		err = repo.Create(ctx, tokenString, claims.IssuedAt.Time, claims.ExpiresAt.Time)
		if err == nil {
			s.audit.Append("auth", "token", "service token issued")
			return tokenString, nil
		}

		if errors.Is(err, common.ErrorConflict) {
			s.logger.Warn(ctx, "service token collision, reissuing", "token_id", claims.ID)
			continue
		}

		s.logger.Error(ctx, "issuance record failed", "error", err.Error())
		return "", common.ErrorUnavailable
	}

	s.logger.Error(ctx, "service token issuance kept colliding", "attempts", issueAttempts)
	return "", common.ErrorInternal
}

// RevokeServiceToken marks a recorded token as revoked. Idempotent for
// already revoked tokens; unknown tokens yield common.ErrorNotFound.
func (s *AuthService) RevokeServiceToken(ctx context.Context, tokenString string) error {

	repo := s.repomanager.Tokens(s.db)

	err := repo.Revoke(ctx, tokenString)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "revocation failed", "error", err.Error())
		return common.ErrorUnavailable
	}

	s.audit.Append("auth", "token", "service token revoked")

	return nil
}
