package repository

import (
	"context"
	"errors"
	"time"

	"quorum/internal/models"

	"gorm.io/gorm"
)

// VoteRepository records votes and keeps the denormalized counters on the
// target in step with the ledger.
type VoteRepository interface {
	// Cast applies a vote and returns the target's new net count.
	// One live vote per (user, target): a repeat in the same direction is a
	// no-op, a direction flip moves the net count by two. Counter mutation
	// and ledger write commit in a single transaction so a timeout or
	// failure never leaves an increment without its record.
	Cast(ctx context.Context, vote *models.Vote) (int, error)
	HistoryByTarget(ctx context.Context, targetType, targetID string) ([]models.Vote, error)
	HistoryByUser(ctx context.Context, userID string) ([]models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func counterColumn(voteType string) string {
	if voteType == models.VoteUp {
		return "upvotes"
	}
	return "downvotes"
}

func (r *voteRepository) target(tx *gorm.DB, targetType string) *gorm.DB {
	if targetType == models.TargetPost {
		return tx.Model(&models.Post{})
	}
	return tx.Model(&models.Comment{})
}

func (r *voteRepository) Cast(ctx context.Context, vote *models.Vote) (int, error) {
	var newCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
			vote.UserID, vote.TargetType, vote.TargetID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First vote: ledger row plus one atomic counter increment.
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
			col := counterColumn(vote.VoteType)
			res := r.target(tx, vote.TargetType).Where("id = ?", vote.TargetID).Updates(map[string]any{
				col:          gorm.Expr(col+" + ?", 1),
				"updated_at": time.Now(),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("Vote target")
			}
		case err != nil:
			return err
		case existing.VoteType == vote.VoteType:
			// Same direction again: idempotent, counters untouched.
		default:
			// Direction flip: retire the old counter, apply the new one.
			if err := tx.Model(&existing).Update("vote_type", vote.VoteType).Error; err != nil {
				return err
			}
			oldCol := counterColumn(existing.VoteType)
			newCol := counterColumn(vote.VoteType)
			res := r.target(tx, vote.TargetType).Where("id = ?", vote.TargetID).Updates(map[string]any{
				oldCol:       gorm.Expr(oldCol+" - ?", 1),
				newCol:       gorm.Expr(newCol+" + ?", 1),
				"updated_at": time.Now(),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("Vote target")
			}
		}

		var counters struct {
			Upvotes   int
			Downvotes int
		}
		if err := r.target(tx, vote.TargetType).
			Select("upvotes", "downvotes").
			Where("id = ?", vote.TargetID).
			Scan(&counters).Error; err != nil {
			return err
		}
		newCount = counters.Upvotes - counters.Downvotes
		return nil
	})
	if err != nil {
		if _, ok := models.AsAppError(err); ok {
			return 0, err
		}
		return 0, models.NewInternalError(err)
	}
	return newCount, nil
}

func (r *voteRepository) HistoryByTarget(ctx context.Context, targetType, targetID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return votes, nil
}

func (r *voteRepository) HistoryByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return votes, nil
}
