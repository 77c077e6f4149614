package service

import (
	"context"

	"pulse/internal/auth"
	"pulse/internal/models"
	"pulse/internal/observability"
	"pulse/internal/repository"
)

// EngagementService implements the like, save, and share operations.
//
// Like and save are toggles: the caller's current membership decides the
// direction, and the repository applies the membership change and counter
// delta in one statement. Two requests from the same user racing a toggle may
// both observe the same prior state and apply the same direction; the
// membership set and counter still agree afterwards because no-op mutations
// carry a zero delta. Share is record-only and idempotent.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
	notifications  *NotificationService
}

// LikeResult reports the caller's membership and the post's counter after a
// like toggle.
type LikeResult struct {
	Liked     bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// SaveResult reports the caller's membership and the post's counter after a
// save toggle.
type SaveResult struct {
	Saved     bool `json:"is_saved"`
	SaveCount int  `json:"save_count"`
}

// ShareResult reports the post's share counter after a share is recorded.
type ShareResult struct {
	Shared     bool `json:"shared"`
	ShareCount int  `json:"share_count"`
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	notifications *NotificationService,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		notifications:  notifications,
	}
}

// ToggleLike flips the caller's like on a post and returns the resulting
// state. Adding a like notifies the post owner; removing one does not.
func (s *EngagementService) ToggleLike(ctx context.Context, identity auth.Identity, postID uint) (*LikeResult, error) {
	post, err := s.requirePost(ctx, identity, postID)
	if err != nil {
		return nil, err
	}
	userID := identity.UserID()

	liked, err := s.engagementRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		count, _, err := s.engagementRepo.RemoveLike(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		observability.EngagementToggles.WithLabelValues("like", "removed").Inc()
		return &LikeResult{Liked: false, LikeCount: count}, nil
	}

	count, added, err := s.engagementRepo.AddLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.EngagementToggles.WithLabelValues("like", "added").Inc()
	if added {
		s.notifications.NotifyLike(ctx, userID, post.UserID, postID)
	}
	return &LikeResult{Liked: true, LikeCount: count}, nil
}

// ToggleSave flips the caller's save on a post. Saves are private; no
// notification is dispatched in either direction.
func (s *EngagementService) ToggleSave(ctx context.Context, identity auth.Identity, postID uint) (*SaveResult, error) {
	if _, err := s.requirePost(ctx, identity, postID); err != nil {
		return nil, err
	}
	userID := identity.UserID()

	saved, err := s.engagementRepo.IsSaved(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if saved {
		count, _, err := s.engagementRepo.RemoveSave(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		observability.EngagementToggles.WithLabelValues("save", "removed").Inc()
		return &SaveResult{Saved: false, SaveCount: count}, nil
	}

	count, _, err := s.engagementRepo.AddSave(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.EngagementToggles.WithLabelValues("save", "added").Inc()
	return &SaveResult{Saved: true, SaveCount: count}, nil
}

// RecordShare records that the caller shared a post. Repeated shares of the
// same post by the same user leave the counter unchanged.
func (s *EngagementService) RecordShare(ctx context.Context, identity auth.Identity, postID uint) (*ShareResult, error) {
	if _, err := s.requirePost(ctx, identity, postID); err != nil {
		return nil, err
	}

	count, added, err := s.engagementRepo.AddShare(ctx, identity.UserID(), postID)
	if err != nil {
		return nil, err
	}
	if added {
		observability.EngagementToggles.WithLabelValues("share", "added").Inc()
	}
	return &ShareResult{Shared: true, ShareCount: count}, nil
}

// requirePost enforces the shared preconditions of every engagement
// operation: an authenticated caller and an existing post.
func (s *EngagementService) requirePost(ctx context.Context, identity auth.Identity, postID uint) (*models.Post, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	post, err := s.postRepo.GetByID(ctx, postID, identity.UserID())
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}
	return post, nil
}
