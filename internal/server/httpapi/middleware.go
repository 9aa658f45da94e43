package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/radiolab/radiometer-auth/internal/common"
	"github.com/radiolab/radiometer-auth/internal/server/models"
	"github.com/radiolab/radiometer-auth/internal/server/token"
)

const localClaims = "claims"

// requireToken validates the Token header and stores the decoded claims in
// the request locals for downstream handlers.
func (s *Server) requireToken(c *fiber.Ctx) error {
	raw := c.Get(common.TokenHeaderName)
	if raw == "" {
		return s.fail(c, common.ErrorUnauthorized)
	}

	claims, err := s.auth.ValidateIncoming(c.UserContext(), raw)
	if err != nil {
		return s.fail(c, err)
	}

	c.Locals(localClaims, claims)
	return c.Next()
}

// requireAdmin must run after requireToken.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	claims, ok := c.Locals(localClaims).(*token.Claims)
	if !ok || claims.Role != models.RoleAdmin {
		return s.fail(c, common.ErrorForbidden)
	}
	return c.Next()
}
