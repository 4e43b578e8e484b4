// Package server contains the Fiber HTTP shell: handlers, middleware and
// routes. Handlers delegate to a service and render the envelope it
// returned.
package server

import (
	"quorum/internal/auth"
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	content *service.ContentService
	users   *service.UserService
	votes   *service.VoteService
	tokens  *auth.TokenIssuer
}

func New(content *service.ContentService, users *service.UserService, votes *service.VoteService, tokens *auth.TokenIssuer) *Server {
	return &Server{content: content, users: users, votes: votes, tokens: tokens}
}

// respond renders a service envelope. The envelope status doubles as the
// HTTP status so a failure never rides out on a 200.
func respond(c *fiber.Ctx, res *models.Response) error {
	return c.Status(res.Status).JSON(res)
}

// callerID returns the authenticated user's id set by AuthRequired.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
