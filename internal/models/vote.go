package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote target and direction values.
const (
	TargetPost    = "post"
	TargetComment = "comment"

	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote is the ledger record of a user's vote on a content item.
// The unique index enforces one live vote per (user, target) pair;
// a direction change updates the row in place.
type Vote struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"user_id"`
	TargetType string    `gorm:"not null;size:16;uniqueIndex:idx_vote_user_target" json:"target_type"`
	TargetID   string    `gorm:"not null;size:36;uniqueIndex:idx_vote_user_target" json:"target_id"`
	VoteType   string    `gorm:"not null;size:16" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ValidVoteType reports whether t is a recognized vote direction.
func ValidVoteType(t string) bool {
	return t == VoteUp || t == VoteDown
}

// ValidTargetType reports whether t names a votable collection.
func ValidTargetType(t string) bool {
	return t == TargetPost || t == TargetComment
}
