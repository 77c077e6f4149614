package models

import "time"

// NotificationKind identifies the transition that produced a notification.
type NotificationKind string

const (
	// NotificationKindLike is emitted when a post gains a like.
	NotificationKindLike NotificationKind = "like"
	// NotificationKindComment is emitted when a post gains a comment.
	NotificationKindComment NotificationKind = "comment"
	// NotificationKindFollow is emitted when a user gains a follower.
	NotificationKindFollow NotificationKind = "follow"
	// NotificationKindMention is emitted when a comment mentions a user.
	NotificationKindMention NotificationKind = "mention"
)

// Notification represents an activity notification delivered to a user.
// Read is the only mutable field; rows are removed in bulk by a
// recipient-initiated clear.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Kind        NotificationKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	SenderID    *uint            `gorm:"index" json:"sender_id,omitempty"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	PostID      *uint            `json:"post_id,omitempty"`
	CommentID   *uint            `json:"comment_id,omitempty"`
	Message     string           `gorm:"not null" json:"message"`
	Read        bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`

	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User  `gorm:"foreignKey:RecipientID" json:"-"`
}
