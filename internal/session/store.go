package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

// CookieName is the session cookie the login service sets after OAuth
// completes. The relay reads it; it never issues or refreshes it.
const CookieName = "tb_session"

// TokenStore resolves the identity from the signed session token minted by
// the login service. The shared HMAC secret is the trust boundary: a valid
// signature proves the login layer authenticated this user, so the relay
// performs no credential checks of its own.
type TokenStore struct {
	secret []byte
}

// NewTokenStore creates a store verifying tokens with the shared secret.
func NewTokenStore(secret string) *TokenStore {
	return &TokenStore{secret: []byte(secret)}
}

// Resolve extracts the session context from the request. The token is read
// from the session cookie, falling back to an Authorization bearer header
// for non-browser clients. Any missing or invalid token resolves to
// ErrNotAuthenticated; admission rejects without emitting events.
func (s *TokenStore) Resolve(r *http.Request) (*types.SessionContext, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, fmt.Errorf("%w: no session token", interfaces.ErrNotAuthenticated)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid session token", interfaces.ErrNotAuthenticated)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: session token has no subject", interfaces.ErrNotAuthenticated)
	}

	return &types.SessionContext{UserID: claims.Subject}, nil
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}

// Mint issues a session token. Exists for tests and local tooling; in
// production the login service signs tokens with the same secret.
func Mint(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// StaticStore resolves every request to a fixed identity. Test double.
type StaticStore struct {
	Context *types.SessionContext
	Err     error
}

// Resolve returns the configured context or error.
func (s *StaticStore) Resolve(*http.Request) (*types.SessionContext, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Context, nil
}
