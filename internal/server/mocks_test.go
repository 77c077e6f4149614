package server

import (
	"context"
	"testing"

	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/service"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockUserRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListSavedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

// MockEngagementRepository is a mock of the EngagementRepository interface
type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) AddLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockEngagementRepository) RemoveLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockEngagementRepository) AddSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockEngagementRepository) RemoveSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockEngagementRepository) AddShare(ctx context.Context, userID, postID uint) (int, bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	args := m.Called(ctx, postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationRepository is a mock of the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID uint) (*models.Notification, error) {
	args := m.Called(ctx, recipientID, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) DeleteAllForRecipient(ctx context.Context, recipientID uint) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

// apiMocks bundles the repository mocks behind a fully wired test Server.
type apiMocks struct {
	users         *MockUserRepository
	posts         *MockPostRepository
	engagements   *MockEngagementRepository
	comments      *MockCommentRepository
	notifications *MockNotificationRepository
}

// newAPITestServer builds a Server whose services run over repository mocks
// and whose session resolver loads users through the user mock, so requests
// can authenticate with real bearer tokens.
func newAPITestServer(t *testing.T) (*Server, *apiMocks) {
	t.Helper()

	mocks := &apiMocks{
		users:         new(MockUserRepository),
		posts:         new(MockPostRepository),
		engagements:   new(MockEngagementRepository),
		comments:      new(MockCommentRepository),
		notifications: new(MockNotificationRepository),
	}

	issuer, err := auth.NewIssuer(testSecret)
	require.NoError(t, err)

	notificationService := service.NewNotificationService(mocks.notifications, mocks.users, nil)

	s := &Server{
		config:              &config.Config{JWTSecret: testSecret},
		issuer:              issuer,
		resolver:            middleware.NewSessionResolver(issuer, mocks.users.GetByID),
		userRepo:            mocks.users,
		postRepo:            mocks.posts,
		commentRepo:         mocks.comments,
		engagementRepo:      mocks.engagements,
		notificationRepo:    mocks.notifications,
		postService:         service.NewPostService(mocks.posts),
		commentService:      service.NewCommentService(mocks.comments, mocks.posts, mocks.users, notificationService),
		engagementService:   service.NewEngagementService(mocks.engagements, mocks.posts, notificationService),
		userService:         service.NewUserService(mocks.users, notificationService),
		notificationService: notificationService,
	}
	return s, mocks
}

// bearerToken mints an access token for the given user and registers the
// matching GetByID expectation so the resolver can load the principal.
func bearerToken(t *testing.T, s *Server, mocks *apiMocks, user *models.User) string {
	t.Helper()
	token, err := s.issuer.IssueAccessToken(user.ID)
	require.NoError(t, err)
	mocks.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	return "Bearer " + token
}
