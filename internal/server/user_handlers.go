package server

import (
	"quorum/internal/models"
	"quorum/internal/service"
	"quorum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var in service.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return respond(c, models.Fail(models.NewValidationError("Username, email, and password are required")))
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return respond(c, models.Fail(models.NewValidationError(err.Error())))
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return respond(c, models.Fail(models.NewValidationError(err.Error())))
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return respond(c, models.Fail(models.NewValidationError(err.Error())))
	}
	return respond(c, s.users.Create(c.Context(), in))
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.users.Login(c.Context(), req.Email, req.Password))
}

// ListUsers handles GET /api/users (admin)
func (s *Server) ListUsers(c *fiber.Ctx) error {
	return respond(c, s.users.List(c.Context()))
}

// GetUser handles GET /api/users/:id (admin)
func (s *Server) GetUser(c *fiber.Ctx) error {
	return respond(c, s.users.GetByID(c.Context(), c.Params("id")))
}

// UpdateUser handles PUT /api/users/:id (admin)
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.users.Update(c.Context(), c.Params("id"), patch))
}

// DeleteUser handles DELETE /api/users/:id (admin)
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	return respond(c, s.users.Delete(c.Context(), c.Params("id")))
}

// ChangePassword handles POST /api/users/me/password (protected)
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return respond(c, models.Fail(models.NewValidationError(err.Error())))
	}
	return respond(c, s.users.ChangePassword(c.Context(), callerID(c), req.CurrentPassword, req.NewPassword))
}

// UserActivity handles GET /api/users/:id/activity (protected)
func (s *Server) UserActivity(c *fiber.Ctx) error {
	return respond(c, s.users.Activity(c.Context(), c.Params("id")))
}
