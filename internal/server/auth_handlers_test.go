package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newAuthTestServer(t *testing.T, mockRepo *MockUserRepository) *Server {
	t.Helper()
	issuer, err := auth.NewIssuer(testSecret)
	require.NoError(t, err)
	return &Server{
		config:   &config.Config{JWTSecret: testSecret},
		issuer:   issuer,
		userRepo: mockRepo,
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "Password123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("GetByUsername", mock.Anything, "testuser").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "testuser",
				"email":    "exists@example.com",
				"password": "Password123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "exists@example.com").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "short",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "testuser",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newAuthTestServer(t, mockRepo)

			app := fiber.New()
			app.Post("/signup", s.Signup)

			resp := postJSON(t, app, "/signup", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestSignup_IssuesTokenPairAndCookie(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newAuthTestServer(t, mockRepo)
	app := fiber.New()
	app.Post("/signup", s.Signup)

	resp := postJSON(t, app, "/signup", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "Password123!",
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token        string      `json:"token"`
		RefreshToken string      `json:"refresh_token"`
		User         models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.NotEmpty(t, body.RefreshToken)
	assert.Empty(t, body.User.Password)

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "signup must set the session cookie")
	assert.Equal(t, body.Token, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &models.User{ID: 1, Username: "testuser", Email: "test@example.com", Password: string(hashed)}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "test@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "test@example.com", "password": "WrongPass456!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "ghost@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newAuthTestServer(t, mockRepo)

			app := fiber.New()
			app.Post("/login", s.Login)

			resp := postJSON(t, app, "/login", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRefresh(t *testing.T) {
	issuer, err := auth.NewIssuer(testSecret)
	require.NoError(t, err)

	refreshToken, err := issuer.IssueRefreshToken(1)
	require.NoError(t, err)
	accessToken, err := issuer.IssueAccessToken(1)
	require.NoError(t, err)
	ghostRefresh, err := issuer.IssueRefreshToken(99)
	require.NoError(t, err)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"refresh_token": refreshToken},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Access Token Rejected",
			body:           map[string]string{"refresh_token": accessToken},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Deleted Account Rejected",
			body: map[string]string{"refresh_token": ghostRefresh},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Token",
			body:           map[string]string{},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newAuthTestServer(t, mockRepo)

			app := fiber.New()
			app.Post("/refresh", s.Refresh)

			resp := postJSON(t, app, "/refresh", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					Token        string `json:"token"`
					RefreshToken string `json:"refresh_token"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.NotEmpty(t, body.Token)
				assert.NotEmpty(t, body.RefreshToken)
				assert.NotEqual(t, refreshToken, body.RefreshToken)
			}
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newAuthTestServer(t, new(MockUserRepository))
	app := fiber.New()
	app.Post("/logout", s.Logout)

	resp := postJSON(t, app, "/logout", map[string]string{})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
