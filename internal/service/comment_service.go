package service

import (
	"context"
	"regexp"

	"pulse/internal/auth"
	"pulse/internal/models"
	"pulse/internal/repository"
)

const maxCommentLen = 10000

// mentionPattern matches @username tokens inside comment bodies. The
// character class mirrors the username validation rules.
var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_-]{3,30})`)

// CommentService manages the comment tree for posts. Replies may chain to
// arbitrary depth; listings resolve a single reply level at a time.
type CommentService struct {
	commentRepo   repository.CommentRepository
	postRepo      repository.PostRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

type CreateCommentInput struct {
	PostID   uint
	ParentID *uint
	Content  string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreateComment adds a comment or a reply to a post, then dispatches a
// COMMENT notification to the post owner and MENTION notifications to users
// named in the body.
func (s *CommentService) CreateComment(ctx context.Context, identity auth.Identity, in CreateCommentInput) (*models.Comment, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != in.PostID {
			return nil, models.NewNotFoundError("Parent comment not found")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   identity.UserID(),
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifications.NotifyComment(ctx, comment.UserID, post.UserID, post.ID, comment.ID)
	s.notifyMentions(ctx, comment, post.UserID)

	return comment, nil
}

// notifyMentions scans the comment body for @username tokens and notifies
// each matching user once. The post owner is skipped here because the COMMENT
// notification already covers them; unknown usernames are ignored.
func (s *CommentService) notifyMentions(ctx context.Context, comment *models.Comment, postOwnerID uint) {
	seen := make(map[string]struct{})
	for _, match := range mentionPattern.FindAllStringSubmatch(comment.Content, -1) {
		username := match[1]
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}

		mentioned, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil || mentioned == nil {
			continue
		}
		if mentioned.ID == postOwnerID {
			continue
		}
		s.notifications.NotifyMention(ctx, comment.UserID, mentioned.ID, comment.PostID, comment.ID)
	}
}

// ListComments returns a post's top-level comments, newest first, with each
// comment's direct replies resolved.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	comments, err := s.commentRepo.ListTopLevel(ctx, postID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		replies, err := s.commentRepo.ListReplies(ctx, comments[i].ID)
		if err != nil {
			return nil, err
		}
		comments[i].Replies = replies
	}
	return comments, nil
}

// GetComment returns a single comment with its replies.
func (s *CommentService) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment not found")
	}
	replies, err := s.commentRepo.ListReplies(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	comment.Replies = replies
	return comment, nil
}

// DeleteComment removes a comment and its replies, returning the removed
// comment. Only the comment's author may delete it; the ownership check
// happens before anything is written.
func (s *CommentService) DeleteComment(ctx context.Context, identity auth.Identity, commentID uint) (*models.Comment, error) {
	if identity.IsAnonymous() {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment not found")
	}
	if comment.UserID != identity.UserID() {
		return nil, models.NewForbiddenError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}
