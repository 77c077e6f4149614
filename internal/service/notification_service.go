package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"pulse/internal/models"
	"pulse/internal/notifications"
	"pulse/internal/observability"
	"pulse/internal/repository"
)

// Publisher publishes a payload to a user's real-time channel.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// NotificationService persists notifications and pushes them to the
// recipient's channel. Dispatch never surfaces errors to its callers: a
// failed notification must not fail the like, comment, or follow that
// triggered it. Failures are recorded in metrics and logs only.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        Publisher
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

// NotifyLike records a LIKE notification for the post owner.
func (s *NotificationService) NotifyLike(ctx context.Context, senderID, recipientID, postID uint) {
	s.dispatch(ctx, models.NotificationKindLike, senderID, recipientID, &postID, nil,
		func(sender string) string { return sender + " liked your post" })
}

// NotifyComment records a COMMENT notification for the post owner.
func (s *NotificationService) NotifyComment(ctx context.Context, senderID, recipientID, postID, commentID uint) {
	s.dispatch(ctx, models.NotificationKindComment, senderID, recipientID, &postID, &commentID,
		func(sender string) string { return sender + " commented on your post" })
}

// NotifyFollow records a FOLLOW notification for the followed user.
func (s *NotificationService) NotifyFollow(ctx context.Context, senderID, recipientID uint) {
	s.dispatch(ctx, models.NotificationKindFollow, senderID, recipientID, nil, nil,
		func(sender string) string { return sender + " started following you" })
}

// NotifyMention records a MENTION notification for a user named in a comment.
func (s *NotificationService) NotifyMention(ctx context.Context, senderID, recipientID, postID, commentID uint) {
	s.dispatch(ctx, models.NotificationKindMention, senderID, recipientID, &postID, &commentID,
		func(sender string) string { return sender + " mentioned you in a comment" })
}

func (s *NotificationService) dispatch(
	ctx context.Context,
	kind models.NotificationKind,
	senderID, recipientID uint,
	postID, commentID *uint,
	message func(sender string) string,
) {
	// Acting on your own content never notifies you.
	if senderID == recipientID {
		observability.NotificationDispatches.WithLabelValues(string(kind), "suppressed").Inc()
		return
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil || sender == nil {
		s.failed(ctx, kind, "sender lookup failed", err)
		return
	}

	notification := &models.Notification{
		Kind:        kind,
		SenderID:    &senderID,
		RecipientID: recipientID,
		PostID:      postID,
		CommentID:   commentID,
		Message:     message(sender.Username),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.failed(ctx, kind, "persist failed", err)
		return
	}

	s.publish(ctx, notification)
	observability.NotificationDispatches.WithLabelValues(string(kind), "delivered").Inc()
}

func (s *NotificationService) publish(ctx context.Context, notification *models.Notification) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal notification", "error", err)
		return
	}
	if err := s.publisher.PublishUser(ctx, notification.RecipientID, string(payload)); err != nil {
		slog.WarnContext(ctx, "failed to publish notification",
			"kind", notification.Kind, "recipient_id", notification.RecipientID, "error", err)
	}
}

func (s *NotificationService) failed(ctx context.Context, kind models.NotificationKind, reason string, err error) {
	observability.NotificationDispatches.WithLabelValues(string(kind), "failed").Inc()
	slog.ErrorContext(ctx, "notification dispatch failed", "kind", kind, "reason", reason, "error", err)
}

// ListNotifications returns the recipient's inbox, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// MarkRead marks one of the recipient's notifications as read and returns the
// updated notification. A notification belonging to someone else is
// indistinguishable from a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Notification not found")
		}
		return nil, err
	}
	return notification, nil
}

// ClearAll deletes every notification in the recipient's inbox.
func (s *NotificationService) ClearAll(ctx context.Context, recipientID uint) error {
	return s.notificationRepo.DeleteAllForRecipient(ctx, recipientID)
}

// Compile-time check that the Redis notifier satisfies Publisher.
var _ Publisher = (*notifications.Notifier)(nil)
