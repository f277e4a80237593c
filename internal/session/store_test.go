package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutorboard/pkg/interfaces"
)

const testSecret = "test-secret-0123456789"

func requestWithCookie(t *testing.T, token string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	return r
}

func TestTokenStore_ResolveFromCookie(t *testing.T) {
	token, err := Mint(testSecret, "alice@school.edu", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	store := NewTokenStore(testSecret)
	sc, err := store.Resolve(requestWithCookie(t, token))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sc.UserID != "alice@school.edu" {
		t.Errorf("unexpected user %q", sc.UserID)
	}
	if !sc.Authenticated() {
		t.Error("context should be authenticated")
	}
}

func TestTokenStore_ResolveFromBearerHeader(t *testing.T) {
	token, err := Mint(testSecret, "alice@school.edu", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	store := NewTokenStore(testSecret)
	sc, err := store.Resolve(r)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sc.UserID != "alice@school.edu" {
		t.Errorf("unexpected user %q", sc.UserID)
	}
}

func TestTokenStore_CookieTakesPrecedence(t *testing.T) {
	cookieToken, err := Mint(testSecret, "cookie@school.edu", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	headerToken, err := Mint(testSecret, "header@school.edu", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	r := requestWithCookie(t, cookieToken)
	r.Header.Set("Authorization", "Bearer "+headerToken)

	store := NewTokenStore(testSecret)
	sc, err := store.Resolve(r)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sc.UserID != "cookie@school.edu" {
		t.Errorf("cookie should win over header, got %q", sc.UserID)
	}
}

func TestTokenStore_ResolveFailures(t *testing.T) {
	store := NewTokenStore(testSecret)

	expired, err := Mint(testSecret, "alice@school.edu", -time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	wrongSecret, err := Mint("some-other-secret", "alice@school.edu", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	noSubject, err := Mint(testSecret, "", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	tests := []struct {
		name    string
		request *http.Request
	}{
		{"no token", httptest.NewRequest(http.MethodGet, "/ws", nil)},
		{"garbage token", requestWithCookie(t, "not-a-jwt")},
		{"expired token", requestWithCookie(t, expired)},
		{"wrong secret", requestWithCookie(t, wrongSecret)},
		{"empty subject", requestWithCookie(t, noSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Resolve(tt.request)
			if !errors.Is(err, interfaces.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	}
}
