// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"blogpanel/internal/session"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

// withSession injects session data the way LoadSession does.
func withSession(r *http.Request, data *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKey, data)
	return r.WithContext(ctx)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/admin/panel", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	handler := RequireAuth(okHandler())

	req := withSession(httptest.NewRequest("GET", "/admin/panel", nil), &session.Data{
		UserID: uuid.New(),
		Email:  "admin@blogpanel.local",
	})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
}

func TestIdentityFromCtx(t *testing.T) {
	if got := IdentityFromCtx(context.Background()); got != nil {
		t.Errorf("anonymous context: got %+v, want nil", got)
	}

	id := uuid.New()
	req := withSession(httptest.NewRequest("GET", "/", nil), &session.Data{
		UserID: id,
		Email:  "admin@blogpanel.local",
	})
	ident := IdentityFromCtx(req.Context())
	if ident == nil {
		t.Fatal("expected an identity")
	}
	if ident.ID != id.String() {
		t.Errorf("id: got %q, want %q", ident.ID, id.String())
	}
	if ident.Email != "admin@blogpanel.local" {
		t.Errorf("email: got %q", ident.Email)
	}
}

func TestRecovererCatchesPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
}

func TestLoggerPreservesResponse(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", w.Code)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("body: got %q", w.Body.String())
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	checks := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s: got %q, want %q", header, got, want)
		}
	}
}

func TestCSRFSetsCookieOnFirstVisit(t *testing.T) {
	handler := CSRF(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("expected a CSRF cookie")
	}
	if len(token) != 64 {
		t.Errorf("token length: got %d, want 64 hex chars", len(token))
	}
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	handler := CSRF(okHandler())

	req := httptest.NewRequest("POST", "/admin/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "expected-token"})
	req.Header.Set(CSRFHeaderName, "wrong-token")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", w.Code)
	}
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	handler := CSRF(okHandler())

	req := httptest.NewRequest("POST", "/admin/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "matching-token"})
	req.Header.Set(CSRFHeaderName, "matching-token")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	handler := CSRF(okHandler())

	form := url.Values{CSRFFormField: {"matching-token"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "matching-token"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
}

func TestRateLimiterBlocksExcess(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("fourth request: got %d, want 429", w.Code)
	}

	// A different client is unaffected.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client: got %d, want 200", w.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP: got %q, want the leftmost forwarded address", got)
	}

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	if got := clientIP(req); got != "203.0.113.8" {
		t.Errorf("clientIP: got %q, want X-Real-IP", got)
	}

	req.Header.Del("X-Real-IP")
	if got := clientIP(req); got != "127.0.0.1" {
		t.Errorf("clientIP: got %q, want the remote address without port", got)
	}
}
