package service

import (
	"context"
	"log/slog"

	"quorum/internal/models"
	"quorum/internal/repository"
)

// VoteService validates and records votes on posts and comments.
type VoteService struct {
	votes    repository.VoteRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewVoteService(
	votes repository.VoteRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *VoteService {
	return &VoteService{votes: votes, posts: posts, comments: comments, logger: logger}
}

func (s *VoteService) fail(op string, err error) *models.Response {
	if appErr, ok := models.AsAppError(err); !ok || appErr.Code == "INTERNAL_ERROR" {
		s.logger.Error("vote operation failed", "op", op, "error", err)
	}
	return models.Fail(err)
}

// Cast records userID's vote on the target and returns the target's new net
// vote count. One live vote per (user, target): a repeat in the same
// direction is a no-op, a flip moves the net count by two.
func (s *VoteService) Cast(ctx context.Context, userID, targetID, targetType, voteType string) *models.Response {
	if !models.ValidVoteType(voteType) {
		return models.Fail(models.NewValidationError(`Invalid vote type. Must be "upvote" or "downvote".`))
	}
	if !models.ValidTargetType(targetType) {
		return models.Fail(models.NewValidationError(`Invalid target type. Must be "post" or "comment".`))
	}

	// Resolve the target collection and confirm the target exists.
	var err error
	if targetType == models.TargetPost {
		_, err = s.posts.GetByID(ctx, targetID)
	} else {
		_, err = s.comments.GetByID(ctx, targetID)
	}
	if err != nil {
		return s.fail("cast", err)
	}

	newCount, err := s.votes.Cast(ctx, &models.Vote{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		VoteType:   voteType,
	})
	if err != nil {
		return s.fail("cast", err)
	}

	return models.OK("Vote recorded successfully!", map[string]any{
		"newCount": newCount,
	})
}

// History returns the ledger entries for a target, newest first.
func (s *VoteService) History(ctx context.Context, targetType, targetID string) *models.Response {
	if !models.ValidTargetType(targetType) {
		return models.Fail(models.NewValidationError(`Invalid target type. Must be "post" or "comment".`))
	}
	votes, err := s.votes.HistoryByTarget(ctx, targetType, targetID)
	if err != nil {
		return s.fail("history", err)
	}
	return models.OK("Votes retrieved successfully!", votes)
}
