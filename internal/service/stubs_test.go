package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn     func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn            func(context.Context, int, int, uint) ([]*models.Post, error)
	listSavedByUserFn func(context.Context, uint, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListSavedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listSavedByUserFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listSavedByUserFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	isLikedFn    func(context.Context, uint, uint) (bool, error)
	isSavedFn    func(context.Context, uint, uint) (bool, error)
	addLikeFn    func(context.Context, uint, uint) (int, bool, error)
	removeLikeFn func(context.Context, uint, uint) (int, bool, error)
	addSaveFn    func(context.Context, uint, uint) (int, bool, error)
	removeSaveFn func(context.Context, uint, uint) (int, bool, error)
	addShareFn   func(context.Context, uint, uint) (int, bool, error)
}

func (s *engagementRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isSavedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) AddLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	return s.addLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) RemoveLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	return s.removeLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) AddSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	return s.addSaveFn(ctx, userID, postID)
}
func (s *engagementRepoStub) RemoveSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	return s.removeSaveFn(ctx, userID, postID)
}
func (s *engagementRepoStub) AddShare(ctx context.Context, userID, postID uint) (int, bool, error) {
	return s.addShareFn(ctx, userID, postID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		isSavedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		addLikeFn:    func(_ context.Context, _, _ uint) (int, bool, error) { return 1, true, nil },
		removeLikeFn: func(_ context.Context, _, _ uint) (int, bool, error) { return 0, true, nil },
		addSaveFn:    func(_ context.Context, _, _ uint) (int, bool, error) { return 1, true, nil },
		removeSaveFn: func(_ context.Context, _, _ uint) (int, bool, error) { return 0, true, nil },
		addShareFn:   func(_ context.Context, _, _ uint) (int, bool, error) { return 1, true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listTopLevelFn func(context.Context, uint, int, int) ([]models.Comment, error)
	listRepliesFn  func(context.Context, uint) ([]models.Comment, error)
	deleteFn       func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	return s.listTopLevelFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1}, nil
		},
		listTopLevelFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, error) {
			return nil, nil
		},
		listRepliesFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	followFn        func(context.Context, uint, uint) error
	unfollowFn      func(context.Context, uint, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followeeID uint) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		isFollowingFn:   func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followFn:        func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:      func(_ context.Context, _, _ uint) error { return nil },
	}
}

// notificationRepoRecorder stores created notifications in memory so tests can
// assert on dispatch behavior.
type notificationRepoRecorder struct {
	mu      sync.Mutex
	created []models.Notification

	listFn     func(context.Context, uint, int, int) ([]models.Notification, error)
	markReadFn func(context.Context, uint, uint) (*models.Notification, error)
	deleteFn   func(context.Context, uint) error
}

func newNotificationRecorder() *notificationRepoRecorder {
	return &notificationRepoRecorder{
		listFn: func(_ context.Context, _ uint, _, _ int) ([]models.Notification, error) {
			return nil, nil
		},
		markReadFn: func(_ context.Context, _, _ uint) (*models.Notification, error) { return nil, nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

func (r *notificationRepoRecorder) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uint(len(r.created) + 1)
	r.created = append(r.created, *n)
	return nil
}
func (r *notificationRepoRecorder) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return r.listFn(ctx, recipientID, limit, offset)
}
func (r *notificationRepoRecorder) MarkRead(ctx context.Context, recipientID, notificationID uint) (*models.Notification, error) {
	return r.markReadFn(ctx, recipientID, notificationID)
}
func (r *notificationRepoRecorder) DeleteAllForRecipient(ctx context.Context, recipientID uint) error {
	return r.deleteFn(ctx, recipientID)
}

func (r *notificationRepoRecorder) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.created))
	copy(out, r.created)
	return out
}

// publisherRecorder captures published channel payloads.
type publisherRecorder struct {
	mu        sync.Mutex
	published map[uint][]string
}

func newPublisherRecorder() *publisherRecorder {
	return &publisherRecorder{published: make(map[uint][]string)}
}

func (p *publisherRecorder) PublishUser(_ context.Context, userID uint, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[userID] = append(p.published[userID], payload)
	return nil
}

// assertAppErrorCode asserts that err is an AppError carrying the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertUnauthenticatedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthenticated)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}
