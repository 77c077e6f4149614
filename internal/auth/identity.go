package auth

import "pulse/internal/models"

// Identity is the tagged result of per-request session resolution: either an
// explicit anonymous principal or an authenticated one with its user record
// loaded. It is resolved once per request and passed explicitly to every
// operation that needs it.
type Identity struct {
	user *models.User
}

// Anonymous returns the identity of an unauthenticated request.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a request resolved to the given user.
func Authenticated(user *models.User) Identity {
	return Identity{user: user}
}

// IsAnonymous reports whether no principal was resolved.
func (id Identity) IsAnonymous() bool {
	return id.user == nil
}

// UserID returns the principal's ID, or zero for the anonymous identity.
// Query paths use the zero value to mean "no current user".
func (id Identity) UserID() uint {
	if id.user == nil {
		return 0
	}
	return id.user.ID
}

// User returns the resolved user record, or nil for the anonymous identity.
func (id Identity) User() *models.User {
	return id.user
}
