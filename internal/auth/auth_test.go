package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/g3company/healthclinic/internal/auth"
)

func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	auth.CreateSession(rec, userID)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	c := sessionCookie(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)

	uid, ok := auth.ParseSession(req)
	if !ok {
		t.Fatal("expected valid session")
	}
	if uid != 42 {
		t.Errorf("uid = %d, want 42", uid)
	}
}

func TestSessionRejectsTamperedValue(t *testing.T) {
	c := sessionCookie(t, 42)

	// Swap the user id but keep the original signature.
	parts := strings.SplitN(c.Value, ".", 2)
	forged := &http.Cookie{Name: c.Name, Value: "1." + parts[1]}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(forged)

	if _, ok := auth.ParseSession(req); ok {
		t.Error("tampered cookie should not parse")
	}
}

func TestSessionRejectsMalformedValue(t *testing.T) {
	for _, v := range []string{"", "42", "42.", "not-a-number.sig", "a.b.c"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: v})
		if _, ok := auth.ParseSession(req); ok {
			t.Errorf("value %q should not parse", v)
		}
	}
}

func TestParseSessionNoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := auth.ParseSession(req); ok {
		t.Error("request without cookie should not parse")
	}
}

func TestMiddlewareAttachesUserID(t *testing.T) {
	var got uint
	var found bool
	h := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = auth.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, 7))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !found || got != 7 {
		t.Errorf("context uid = %d (found=%v), want 7", got, found)
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	h := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAuthClearsStaleSession(t *testing.T) {
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool { return false })
	defer auth.SetUserVerifier(nil)

	h := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale session cookie should be cleared")
	}
}
