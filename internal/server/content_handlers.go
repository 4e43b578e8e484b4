package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.CreatePostInput
	if err := c.BodyParser(&in); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.content.CreatePost(c.Context(), callerID(c), in))
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return respond(c, s.content.GetPosts(c.Context()))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	return respond(c, s.content.GetPostByID(c.Context(), c.Params("id")))
}

// GetPostsByUser handles GET /api/users/:id/posts
func (s *Server) GetPostsByUser(c *fiber.Ctx) error {
	return respond(c, s.content.GetPostsByUser(c.Context(), c.Params("id")))
}

// GetPostsByCategory handles GET /api/posts/category/:category
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	return respond(c, s.content.GetPostsByCategory(c.Context(), c.Params("category")))
}

// UpdatePost handles PUT /api/posts/:id (protected)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.content.UpdatePost(c.Context(), c.Params("id"), callerID(c), patch))
}

// DeletePost handles DELETE /api/posts/:id (protected)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	return respond(c, s.content.DeletePost(c.Context(), c.Params("id"), callerID(c)))
}

// CreateComment handles POST /api/posts/:id/comments (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.content.AddComment(c.Context(), callerID(c), c.Params("id"), req.Content))
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	return respond(c, s.content.GetComments(c.Context(), c.Params("id")))
}

// GetAllComments handles GET /api/comments
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	return respond(c, s.content.GetAllComments(c.Context()))
}

// UpdateComment handles PUT /api/comments/:id (protected)
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.content.UpdateComment(c.Context(), c.Params("id"), callerID(c), patch))
}

// DeleteComment handles DELETE /api/comments/:id (protected)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	return respond(c, s.content.DeleteComment(c.Context(), c.Params("id"), callerID(c)))
}

// Search handles GET /api/search?q=...&type=post|comment|user
func (s *Server) Search(c *fiber.Ctx) error {
	return respond(c, s.content.Search(c.Context(), c.Query("q"), c.Query("type")))
}

// Trending handles GET /api/posts/trending
func (s *Server) Trending(c *fiber.Ctx) error {
	return respond(c, s.content.Trending(c.Context()))
}

// TopComments handles GET /api/comments/top
func (s *Server) TopComments(c *fiber.Ctx) error {
	return respond(c, s.content.TopComments(c.Context()))
}

// FilteredPosts handles GET /api/posts/filter?category=...&sortBy=...
func (s *Server) FilteredPosts(c *fiber.Ctx) error {
	return respond(c, s.content.Filtered(c.Context(), c.Query("category"), c.Query("sortBy")))
}
