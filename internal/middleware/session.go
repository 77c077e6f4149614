// Package middleware provides authentication, logging, rate limiting, and
// tracing middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strings"

	"pulse/internal/auth"
	"pulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the fiber.Ctx locals key under which the resolved identity
// is stored for the request.
const identityKey = "identity"

// UserLoader fetches the user behind a verified token subject. Returning
// (nil, nil) means the account no longer exists and the request resolves
// anonymous.
type UserLoader func(ctx context.Context, userID uint) (*models.User, error)

// SessionResolver turns a request's credentials into an Identity. Every
// request resolves to exactly one identity: a verifiable access token yields
// the authenticated user, anything else yields Anonymous. Only access tokens
// grant a session; a refresh token presented here is rejected like any other
// invalid credential.
type SessionResolver struct {
	issuer   *auth.Issuer
	loadUser UserLoader
}

// NewSessionResolver creates a SessionResolver backed by the given token
// issuer and user loader.
func NewSessionResolver(issuer *auth.Issuer, loadUser UserLoader) *SessionResolver {
	return &SessionResolver{issuer: issuer, loadUser: loadUser}
}

// resolve extracts and verifies the request's credential. The Authorization
// header wins over the cookie; a malformed header does not fall through to
// the cookie.
func (r *SessionResolver) resolve(c *fiber.Ctx) (auth.Identity, error) {
	tokenString, ok := credentialFrom(c)
	if !ok {
		return auth.Anonymous(), nil
	}

	claims, err := r.issuer.Verify(tokenString, auth.TokenKindAccess)
	if err != nil {
		return auth.Anonymous(), err
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return auth.Anonymous(), err
	}

	user, err := r.loadUser(c.Context(), userID)
	if err != nil {
		// A store failure is not a credential failure; callers must not
		// report it as one.
		return auth.Anonymous(), models.NewInternalError(err)
	}
	if user == nil {
		// Token outlived the account.
		return auth.Anonymous(), auth.ErrInvalidToken
	}

	user.Password = ""
	return auth.Authenticated(user), nil
}

// credentialFrom returns the bearer credential for the request. The
// Authorization header is authoritative when present, even if malformed;
// otherwise the `token` cookie is used.
func credentialFrom(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie, true
	}
	return "", false
}

// AuthRequired enforces authentication: requests that do not resolve to an
// authenticated identity are rejected with 401. A principal-store failure is
// surfaced as 500, never disguised as a credential problem.
func (r *SessionResolver) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := r.resolve(c)
		if isStoreFailure(err) {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if err != nil || identity.IsAnonymous() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		c.Locals(identityKey, identity)
		c.Locals("userID", identity.UserID())
		SetUserID(c, identity.UserID())
		return c.Next()
	}
}

// OptionalAuth resolves the identity when a valid credential is present and
// lets the request proceed as Anonymous otherwise. Invalid credentials do
// not fail open-access routes, but a principal-store failure still does: the
// caller presented a verifiable token and we cannot say who they are.
func (r *SessionResolver) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := r.resolve(c)
		if isStoreFailure(err) {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if err != nil {
			identity = auth.Anonymous()
		}
		c.Locals(identityKey, identity)
		if !identity.IsAnonymous() {
			c.Locals("userID", identity.UserID())
			SetUserID(c, identity.UserID())
		}
		return c.Next()
	}
}

// isStoreFailure reports whether resolution failed on the principal store
// rather than on the credential itself.
func isStoreFailure(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeInternal
}

// IdentityFrom returns the identity resolved for the request. Routes without
// a session middleware in front resolve Anonymous.
func IdentityFrom(c *fiber.Ctx) auth.Identity {
	if identity, ok := c.Locals(identityKey).(auth.Identity); ok {
		return identity
	}
	return auth.Anonymous()
}
