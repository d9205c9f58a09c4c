package token

import (
	"errors"
	"slices"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token decoding.
var (
	// ErrInvalidToken is returned when an access token cannot be decoded
	// or is missing required claims.
	ErrInvalidToken = errors.New("token: invalid access token")
)

// TokenPair is the credential pair returned by the auth endpoints and
// persisted between runs. The refresh token is optional; some deployments
// issue access tokens only.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Identity holds the claims decoded from an access token.
// ExpiresAt always mirrors the token's exp claim; it is never set
// independently of the token it was decoded from.
type Identity struct {
	ExpiresAt   time.Time
	Subject     string
	Name        string
	Role        string
	CompanyID   string
	Permissions []string
}

// accessClaims mirrors the dashboard API's access token payload.
type accessClaims struct {
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	CompanyID   string   `json:"companyId,omitempty"`
	jwtlib.RegisteredClaims
}

// Decode extracts identity claims from an access token without verifying
// its signature. The dashboard is a client of the issuing server, so
// signature validation happens server-side on every API call; the client
// only needs the claims to render identity and schedule renewal.
//
// A token without an exp claim is rejected: the session manager derives
// its renewal schedule from it.
func Decode(accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(accessToken, &accessClaims{})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.IsZero() {
		return nil, errors.Join(ErrInvalidToken, errors.New("missing exp claim"))
	}

	return &Identity{
		Subject:     claims.Subject,
		Name:        claims.Name,
		Role:        claims.Role,
		CompanyID:   claims.CompanyID,
		Permissions: claims.Permissions,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// HasRole reports whether the identity carries the given role.
// Safe to call on a nil identity: an unauthenticated caller gets false.
func (id *Identity) HasRole(role string) bool {
	return id != nil && role != "" && id.Role == role
}

// HasPermission reports whether the identity carries the given permission.
// Safe to call on a nil identity.
func (id *Identity) HasPermission(perm string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Permissions, perm)
}

// ExpiredAt reports whether the access token is unusable at the given time.
func (id *Identity) ExpiredAt(now time.Time) bool {
	return id == nil || !now.Before(id.ExpiresAt)
}
