package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kytstore.org/kyt-web/internal/cart"
)

func TestSessionMiddlewareSetsCookie(t *testing.T) {
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var seen bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "KYT_WEB_SESSION" {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatalf("expected KYT_WEB_SESSION cookie to be set, got %v", rec.Result().Header["Set-Cookie"])
	}
}

func TestSessionRoundTripKeepsToken(t *testing.T) {
	signIn := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r).SignIn("tok-123", "jdoe@example.com")
		_, _ = io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	signIn.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "KYT_WEB_SESSION" {
			cookie = c.Value
		}
	}
	if cookie == "" {
		t.Fatalf("expected session cookie after sign-in")
	}

	read := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if !s.Authenticated() {
			t.Errorf("expected authenticated session")
		}
		if s.Token != "tok-123" || s.Email != "jdoe@example.com" {
			t.Errorf("unexpected session payload: token=%q email=%q", s.Token, s.Email)
		}
		_, _ = io.WriteString(w, "ok")
	}))
	req2 := httptest.NewRequest(http.MethodGet, "/store", nil)
	req2.Header.Set("Cookie", "KYT_WEB_SESSION="+cookie)
	read.ServeHTTP(httptest.NewRecorder(), req2)
}

func TestSessionCookieTamperingIsRejected(t *testing.T) {
	signIn := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r).SignIn("tok-123", "jdoe@example.com")
		_, _ = io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	signIn.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "KYT_WEB_SESSION" {
			cookie = c.Value
		}
	}
	// flip a character in the signed payload
	tampered := cookie
	if tampered[0] != 'A' {
		tampered = "A" + tampered[1:]
	} else {
		tampered = "B" + tampered[1:]
	}

	read := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r).Authenticated() {
			t.Errorf("tampered cookie must yield a fresh unauthenticated session")
		}
		_, _ = io.WriteString(w, "ok")
	}))
	req := httptest.NewRequest(http.MethodGet, "/store", nil)
	req.Header.Set("Cookie", "KYT_WEB_SESSION="+tampered)
	read.ServeHTTP(httptest.NewRecorder(), req)
}

func TestSignInRegeneratesSessionID(t *testing.T) {
	s := &SessionData{ID: "before", CSRFToken: "tok"}
	s.SignIn("tok-123", "jdoe@example.com")
	if s.ID == "before" {
		t.Fatalf("expected session id regeneration on first authentication")
	}
}

func TestSignOutClearsTokenAndSidebar(t *testing.T) {
	s := &SessionData{ID: "x", Token: "tok-123", Email: "jdoe@example.com", Sidebar: cart.SidebarOpen}
	s.SignOut()
	if s.Authenticated() {
		t.Fatalf("expected token cleared")
	}
	if s.Sidebar != cart.SidebarClosed {
		t.Fatalf("expected sidebar reset to closed")
	}
	if s.Email != "" {
		t.Fatalf("expected email cleared")
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	called := false
	h := Session(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store", nil))
	if called {
		t.Fatalf("handler must not run for anonymous requests")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestRequireAuthHTMXUsesHXRedirect(t *testing.T) {
	h := HTMX(Session(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not run")
	}))))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("expected HX-Redirect to /, got %q", got)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	signIn := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r).SignIn("tok-123", "jdoe@example.com")
		_, _ = io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	signIn.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "KYT_WEB_SESSION" {
			cookie = c.Value
		}
	}

	h := Session(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "store")
	})))
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/store", nil)
	req2.Header.Set("Cookie", "KYT_WEB_SESSION="+cookie)
	h.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK || strings.TrimSpace(rec2.Body.String()) != "store" {
		t.Fatalf("expected handler to run, got %d %q", rec2.Code, rec2.Body.String())
	}
}

func TestCSRFBlocksPostWithoutToken(t *testing.T) {
	h := HTMX(Session(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestCSRFErrorEnvelopeForFragments(t *testing.T) {
	h := HTMX(Session(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON envelope for fragment rejection, got %q", ct)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Message == "" {
		t.Fatalf("expected message in envelope, got %s", rec.Body.String())
	}
}

func TestAssetsETagRevalidation(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := AssetsWithCache(dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	et := rec.Header().Get("ETag")
	if et == "" {
		t.Fatal("expected ETag on asset response")
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=") {
		t.Fatalf("expected cache policy, got %q", cc)
	}

	rec2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/app.css", nil)
	req.Header.Set("If-None-Match", et)
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 on matching ETag, got %d", rec2.Code)
	}
}
