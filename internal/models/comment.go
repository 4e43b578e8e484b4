package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a content item attached to a post. PostID and OwnerID are
// immutable after creation.
type Comment struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	PostID    string `gorm:"not null;index" json:"post_id"`
	OwnerID   string `gorm:"not null;index" json:"owner_id"`
	Content   string `gorm:"not null;index" json:"content"`
	Upvotes   int    `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int    `gorm:"not null;default:0" json:"downvotes"`
	// VoteCount is not persisted; derived from the raw counters on read
	VoteCount int       `gorm:"-" json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Comment) AfterFind(tx *gorm.DB) error {
	c.VoteCount = c.Upvotes - c.Downvotes
	return nil
}
