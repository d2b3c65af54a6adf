// Package auth verifies access tokens issued by the hosted auth service and
// exchanges sign-in codes for sessions.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/tournevent/storefront/pkg/access"
)

// Session cookie names set by the auth service's browser client.
const (
	CookieAccessToken  = "sb-access-token"
	CookieRefreshToken = "sb-refresh-token"
	CookieCodeVerifier = "sb-code-verifier"
)

var (
	// ErrNoToken indicates the request carried no access token.
	ErrNoToken = errors.New("no access token")

	// ErrInvalidToken indicates a malformed, forged or expired token.
	ErrInvalidToken = errors.New("invalid access token")
)

// Claims are the access token claims the service reads.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"` // database role, e.g. "authenticated"
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret []byte
	clock  clockwork.Clock
}

// NewVerifier creates a Verifier for tokens signed with secret. A nil
// clock uses wall time.
func NewVerifier(secret string, clock clockwork.Clock) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Verifier{secret: []byte(secret), clock: clock}, nil
}

// Verify parses and validates token and returns its principal.
func (v *Verifier) Verify(token string) (*access.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &access.Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		Metadata:    claims.UserMetadata,
		AppMetadata: claims.AppMetadata,
	}, nil
}

// TokenFromRequest returns the access token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", fmt.Errorf("%w: malformed Authorization header", ErrInvalidToken)
		}
		return strings.TrimSpace(token), nil
	}
	if c, err := r.Cookie(CookieAccessToken); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoToken
}

// Authenticate extracts and verifies the request's token. It returns
// ErrNoToken for anonymous requests.
func (v *Verifier) Authenticate(r *http.Request) (*access.Principal, error) {
	token, err := TokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	return v.Verify(token)
}
