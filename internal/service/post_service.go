package service

import (
	"context"

	"pulse/internal/auth"
	"pulse/internal/cache"
	"pulse/internal/models"
	"pulse/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Title    string
	Content  string
	ImageURL string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, identity auth.Identity, in CreatePostInput) (*models.Post, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	const maxTitleLen = 300

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   identity.UserID(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePostsList(ctx)

	return s.GetPost(ctx, post.ID, identity.UserID())
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, clampLimit(in.Limit), in.Offset, in.CurrentUserID)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, clampLimit(limit), offset, currentUserID)
}

// ListSavedPosts returns the caller's saved posts, most recently saved first.
func (s *PostService) ListSavedPosts(ctx context.Context, identity auth.Identity, limit, offset int) ([]*models.Post, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	return s.postRepo.ListSavedByUser(ctx, identity.UserID(), clampLimit(limit), offset)
}
