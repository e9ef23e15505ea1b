package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func sessionProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seen string
	mw := SessionMiddleware(zap.NewNop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := GetSessionID(r.Context())
		if !ok {
			t.Fatal("session id missing from context")
		}
		seen = sessionID
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	handler, seen := sessionProbe(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/cart", nil))

	if _, err := uuid.Parse(*seen); err != nil {
		t.Fatalf("context session id %q is not a uuid: %v", *seen, err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName {
		t.Fatalf("expected one %s cookie, got %v", SessionCookieName, cookies)
	}
	if cookies[0].Value != *seen {
		t.Fatal("cookie value does not match context session id")
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	handler, seen := sessionProbe(t)

	sessionID := uuid.New().String()
	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if *seen != sessionID {
		t.Fatalf("expected session %q to be reused, got %q", sessionID, *seen)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("no new cookie should be issued for an existing session")
	}
}

func TestSessionMiddlewareReplacesInvalidCookie(t *testing.T) {
	handler, seen := sessionProbe(t)

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if *seen == "not-a-uuid" {
		t.Fatal("invalid session id must not be reused")
	}
	if len(w.Result().Cookies()) != 1 {
		t.Fatal("a fresh cookie should be issued for an invalid session")
	}
}
