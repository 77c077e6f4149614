package service

import (
	"context"

	"pulse/internal/auth"
	"pulse/internal/models"
	"pulse/internal/repository"
)

// UserService handles profile reads and the follow relationship.
type UserService struct {
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// FollowResult reports the caller's relationship to the target after a
// follow toggle.
type FollowResult struct {
	Following bool `json:"following"`
}

type UpdateProfileInput struct {
	Username string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository, notifications *NotificationService) *UserService {
	return &UserService{userRepo: userRepo, notifications: notifications}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, identity auth.Identity, in UpdateProfileInput) (*models.User, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	user, err := s.GetUserByID(ctx, identity.UserID())
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" && in.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ToggleFollow flips the caller's follow on the target user. Gaining a
// follower notifies the target; losing one does not.
func (s *UserService) ToggleFollow(ctx context.Context, identity auth.Identity, targetID uint) (*FollowResult, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	if identity.UserID() == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User not found")
	}

	following, err := s.userRepo.IsFollowing(ctx, identity.UserID(), targetID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.userRepo.Unfollow(ctx, identity.UserID(), targetID); err != nil {
			return nil, err
		}
		return &FollowResult{Following: false}, nil
	}

	if err := s.userRepo.Follow(ctx, identity.UserID(), targetID); err != nil {
		return nil, err
	}
	s.notifications.NotifyFollow(ctx, identity.UserID(), targetID)
	return &FollowResult{Following: true}, nil
}
