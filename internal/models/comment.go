// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post in the Pulse application.
//
// Comments live in a single flat table. A reply carries its parent's ID in
// ParentID; traversal is always an indexed lookup on parent_id, never an
// embedded structure. Consumers render one level of nesting.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	UserID   uint   `gorm:"not null" json:"user_id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	// Replies holds the direct children when the comment is fetched with
	// reply resolution; it is never eagerly joined on list queries.
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
