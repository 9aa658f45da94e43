// Package token builds and verifies the signed bearer tokens issued by the
// auth service. Tokens are HS256 JWTs carrying subject, role, issuer,
// audience, not-before and expiry claims.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/radiolab/radiometer-auth/internal/common"
)

// TokenUseService marks tokens issued through the administrative path.
// The validator consults the revocation store only for these.
const TokenUseService = "service"

// Claims is the fixed claim set embedded in every issued token.
// Session tokens carry Subject and Role; service tokens additionally carry
// TokenUse and a unique ID so revocation records can be required for them.
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	TokenUse string `json:"token_use,omitempty"`
}

// IsService reports whether the token was issued through the administrative
// path and is therefore subject to the revocation check.
func (c *Claims) IsService() bool {
	return c.TokenUse == TokenUseService
}

// Codec signs and verifies tokens with a process-wide symmetric secret.
// It is built once at startup and safe for concurrent use.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
}

// NewCodec validates the signing configuration and returns a Codec.
// An empty secret is a fatal misconfiguration, not a per-request error.
func NewCodec(secret, issuer, audience string, validity time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, common.ErrorConfiguration
	}
	if validity <= 0 {
		return nil, common.ErrorConfiguration
	}
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		validity: validity,
	}, nil
}

// Issue signs a session token for the given subject and role. Not-before is
// set to now, expiry to now plus the configured validity window.
func (c *Codec) Issue(subject, role string) (string, *Claims, error) {
	return c.sign(subject, role, "")
}

// IssueService signs an administratively issued token with the given role.
// It carries a unique token ID and the service marker so validation knows a
// revocation record must exist for it.
func (c *Codec) IssueService(role string) (string, *Claims, error) {
	return c.sign("", role, TokenUseService)
}

func (c *Codec) sign(subject, role, tokenUse string) (string, *Claims, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			Subject:   subject,
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		Role:     role,
		TokenUse: tokenUse,
	}
	if tokenUse != "" {
		claims.ID = uuid.NewString()
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ParseAndVerify decodes the token, checks the HS256 signature and then the
// issuer, audience and temporal claims. Failures are reported through the
// common token sentinels; callers collapse them into a single unauthorized
// outcome but can log the sub-reason.
func (c *Codec) ParseAndVerify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, translateError(err)
	}

	if !tok.Valid {
		return nil, common.ErrTokenSignatureInvalid
	}

	return claims, nil
}

func translateError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return common.ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return common.ErrTokenWrongIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return common.ErrTokenWrongAudience
	default:
		return common.ErrTokenMalformed
	}
}
