// Package httpapi exposes the auth service over HTTP. Tokens travel in the
// "Token" request header; rejection responses are uniform so a caller cannot
// tell which check failed.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/radiolab/radiometer-auth/internal/common"
	"github.com/radiolab/radiometer-auth/internal/logging"
	"github.com/radiolab/radiometer-auth/internal/server/config"
	"github.com/radiolab/radiometer-auth/internal/server/services"
)

type Server struct {
	app    *fiber.App
	auth   *services.AuthService
	logger logging.Logger
}

func NewServer(cfg *config.Config, auth *services.AuthService, logger logging.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowedOrigin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + common.TokenHeaderName,
	}))

	s := &Server{
		app:    app,
		auth:   auth,
		logger: logger.With("module", "httpapi"),
	}

	app.Post("/login", s.login)
	app.Get("/checkAuth", s.requireToken, s.checkAuth)
	app.Get("/get-token", s.requireToken, s.requireAdmin, s.getToken)
	app.Post("/revoke-token", s.requireToken, s.requireAdmin, s.revokeToken)

	return s
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting new connections and waits for in-flight
// requests, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
