package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/radiolab/radiometer-auth/internal/common"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

type revokeRequest struct {
	Token string `json:"token"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	res, err := s.auth.Authenticate(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(loginResponse{AccessToken: res.AccessToken, UserID: res.UserID})
}

func (s *Server) checkAuth(c *fiber.Ctx) error {
	// requireToken already validated the token
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) getToken(c *fiber.Ctx) error {
	tok, err := s.auth.IssueServiceToken(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.SendString(tok)
}

func (s *Server) revokeToken(c *fiber.Ctx) error {
	var req revokeRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := s.auth.RevokeServiceToken(c.UserContext(), req.Token); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// fail maps service errors to HTTP statuses. All unauthorized outcomes share
// one body so callers cannot probe for valid logins or tokens.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, common.ErrorUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "service unavailable"})
	default:
		s.logger.Error(c.UserContext(), "unhandled error", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
