// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a content item in the Pulse application.
//
// LikeCount, SaveCount, and ShareCount are persisted denormalized counters.
// Each one must equal the cardinality of its membership table (likes, saves,
// shares) at all times; the only mutation path is the engagement repository,
// which updates the membership row and the counter in a single statement.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	LikeCount  int `gorm:"not null;default:0" json:"like_count"`
	SaveCount  int `gorm:"not null;default:0" json:"save_count"`
	ShareCount int `gorm:"not null;default:0" json:"share_count"`

	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"is_liked"`
	// Saved indicates whether the current requesting user saved this post (computed)
	Saved bool `gorm:"->" json:"is_saved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
