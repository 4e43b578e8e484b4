// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a top-level content item. Vote counters are only ever mutated
// through the vote repository's atomic increments, never by a general update.
type Post struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null;index" json:"title"`
	Description string    `json:"description"`
	Categories  []string  `gorm:"serializer:json;type:text" json:"categories"`
	OwnerID     string    `gorm:"not null;index" json:"owner_id"`
	Upvotes     int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes   int       `gorm:"not null;default:0" json:"downvotes"`
	// VoteCount is not persisted; derived from the raw counters on read
	VoteCount int       `gorm:"-" json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i, c := range p.Categories {
		p.Categories[i] = strings.ToLower(c)
	}
	return nil
}

func (p *Post) AfterFind(tx *gorm.DB) error {
	p.VoteCount = p.Upvotes - p.Downvotes
	return nil
}
