package server

import (
	"strings"

	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired verifies the bearer token and stores the caller identity in
// request locals.
func (s *Server) AuthRequired(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return respond(c, models.Fail(models.NewUnauthorizedError("Missing or invalid authorization header")))
	}

	claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return respond(c, models.Fail(models.NewUnauthorizedError("Invalid or expired token")))
	}

	c.Locals("userID", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

// AdminRequired allows only admin-role callers. Must run after AuthRequired.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return respond(c, models.Fail(models.NewForbiddenError("Admin role required")))
	}
	return c.Next()
}
