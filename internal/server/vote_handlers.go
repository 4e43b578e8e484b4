package server

import (
	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// VotePost handles POST /api/posts/:id/vote (protected)
func (s *Server) VotePost(c *fiber.Ctx) error {
	return s.castVote(c, models.TargetPost)
}

// VoteComment handles POST /api/comments/:id/vote (protected)
func (s *Server) VoteComment(c *fiber.Ctx) error {
	return s.castVote(c, models.TargetComment)
}

func (s *Server) castVote(c *fiber.Ctx, targetType string) error {
	var req struct {
		VoteType string `json:"voteType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respond(c, models.Fail(models.NewValidationError("Invalid request body")))
	}
	return respond(c, s.votes.Cast(c.Context(), callerID(c), c.Params("id"), targetType, req.VoteType))
}

// PostVoteHistory handles GET /api/posts/:id/votes
func (s *Server) PostVoteHistory(c *fiber.Ctx) error {
	return respond(c, s.votes.History(c.Context(), models.TargetPost, c.Params("id")))
}

// CommentVoteHistory handles GET /api/comments/:id/votes
func (s *Server) CommentVoteHistory(c *fiber.Ctx) error {
	return respond(c, s.votes.History(c.Context(), models.TargetComment, c.Params("id")))
}
