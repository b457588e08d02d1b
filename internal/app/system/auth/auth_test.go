package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

type stubFetcher map[string]*auth.SessionUser

func (s stubFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser {
	return s[id]
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler(nil)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/grouporders", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("vendor", "admin")(okHandler(nil))

	tests := []struct {
		role     string
		expected int
	}{
		{"vendor", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"supplier", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/grouporders/available", nil)
			if tc.role != "" {
				req = withTestUser(req, tc.role)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.expected {
				t.Errorf("role %q: expected status %d, got %d", tc.role, tc.expected, rec.Code)
			}
		})
	}
}

func TestSignIn_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{
		"507f1f77bcf86cd799439011": {ID: "507f1f77bcf86cd799439011", Name: "Ravi", Role: "vendor"},
	})

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest("GET", "/api/grouporders", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user loaded from session cookie")
	}
	if got.Role != "vendor" || got.Name != "Ravi" {
		t.Errorf("loaded user: got %+v", got)
	}
}

func TestLoadSessionUser_TamperedCookieIsAnonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{
		"507f1f77bcf86cd799439011": {ID: "507f1f77bcf86cd799439011", Role: "vendor"},
	})

	req := httptest.NewRequest("GET", "/api/grouporders", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-signed-value"})

	called := false
	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("handler should still run")
	}
	if got != nil {
		t.Errorf("tampered cookie should not authenticate, got %+v", got)
	}
}

func TestLoadSessionUser_DisabledUserDropped(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	found := true
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("user unknown to the fetcher must not be signed in")
	}
}

func TestLoadSessionUser_BearerToken(t *testing.T) {
	sm := newTestSessionManager(t)
	ti := auth.NewTokenIssuer("token-secret-for-tests-0123456789", time.Hour)
	sm.SetTokenIssuer(ti)
	sm.SetUserFetcher(stubFetcher{
		"507f1f77bcf86cd799439012": {ID: "507f1f77bcf86cd799439012", Role: "supplier"},
	})

	token, _, err := ti.Issue(auth.SessionUser{ID: "507f1f77bcf86cd799439012", Role: "supplier"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/grouporders/supplier", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	var role string
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			role = u.Role
		}
	})).ServeHTTP(httptest.NewRecorder(), req)

	if role != "supplier" {
		t.Errorf("role from bearer token: got %q, want supplier", role)
	}
}

func TestTokenIssuer_RejectsTamperedAndForeign(t *testing.T) {
	ti := auth.NewTokenIssuer("secret-one-secret-one-secret-one", time.Hour)
	other := auth.NewTokenIssuer("secret-two-secret-two-secret-two", time.Hour)

	token, _, err := ti.Issue(auth.SessionUser{ID: "abc", Role: "vendor"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := ti.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "abc" || claims.Role != "vendor" {
		t.Errorf("claims: got subject=%q role=%q", claims.Subject, claims.Role)
	}

	if _, err := other.Parse(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("foreign secret: expected ErrInvalidToken, got %v", err)
	}
	if _, err := ti.Parse(token + "x"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("tampered token: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	ti := auth.NewTokenIssuer("secret-one-secret-one-secret-one", time.Nanosecond)
	token, _, err := ti.Issue(auth.SessionUser{ID: "abc", Role: "vendor"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err := ti.Parse(token); !errors.Is(err, auth.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := auth.CurrentUser(req); ok || u != nil {
		t.Error("expected no user in a bare request")
	}

	req = withTestUser(req, "admin")
	u, ok := auth.CurrentUser(req)
	if !ok || u == nil {
		t.Fatal("expected user in context")
	}
	if u.Role != "admin" {
		t.Errorf("expected role 'admin', got %q", u.Role)
	}
}

// withTestUser injects a SessionUser into the request context for testing.
func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:      "507f1f77bcf86cd799439011",
		Name:    "Test User",
		LoginID: "test@example.com",
		Role:    role,
	})
}
