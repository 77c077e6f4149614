// Package auth issues and verifies the signed token pairs that carry a
// session, and defines the identity type every request resolves to.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access from refresh tokens. A token is only valid
// for the kind it was issued as; Verify rejects mismatches.
type TokenKind string

const (
	// TokenKindAccess authorizes API requests.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh can only be redeemed for a new pair.
	TokenKindRefresh TokenKind = "refresh"
)

// Token lifetimes. Access must stay strictly shorter than refresh.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const (
	tokenIssuer   = "pulse-api"
	tokenAudience = "pulse-client"
)

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures,
	// wrong issuer/audience, and kind mismatches.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the signed claim set carried by both token kinds.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal ID from the subject claim.
func (c *Claims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenPair is an access/refresh token pair issued at login, signup, and refresh.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Issuer signs and verifies tokens with a shared HMAC secret. It holds no
// other state; verification never touches the database.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an Issuer. An empty secret is a configuration defect and
// must abort startup, so it is rejected here rather than at signing time.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// IssueAccessToken signs a short-lived access token for the given principal.
func (i *Issuer) IssueAccessToken(userID uint) (string, error) {
	return i.issue(userID, TokenKindAccess, AccessTokenTTL)
}

// IssueRefreshToken signs a refresh token for the given principal.
func (i *Issuer) IssueRefreshToken(userID uint) (string, error) {
	return i.issue(userID, TokenKindRefresh, RefreshTokenTTL)
}

// IssuePair issues a fresh access/refresh pair for the given principal.
func (i *Issuer) IssuePair(userID uint) (TokenPair, error) {
	access, err := i.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) issue(userID uint, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature, expiry, issuer, audience, and kind. It performs no
// store lookup; resolving the claims to a live principal is the caller's job.
func (i *Issuer) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
