package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/g3company/healthclinic/internal/models"
	"github.com/g3company/healthclinic/internal/services"
)

func setupApp(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Patient{}, &models.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, New(db)
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u, err := services.NewCredentialStore(db).CreateUser(services.CreateUserInput{
		Username: "admin",
		Email:    "admin@healthclinic.local",
		Password: "letmein123",
		FullName: "System Administrator",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

func login(t *testing.T, app http.Handler, username, password string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	var cookies []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			cookies = append(cookies, c)
		}
	}
	if len(cookies) == 0 {
		t.Fatal("no session cookie after login")
	}
	return cookies
}

func TestHealthEndpoints(t *testing.T) {
	_, app := setupApp(t)
	for _, path := range []string{"/health", "/healthz"} {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s content type = %q", path, ct)
		}
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	_, app := setupApp(t)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestLoginThenDashboard(t *testing.T) {
	db, app := setupApp(t)
	seedAdmin(t, db)
	cookies := login(t, app, "admin", "letmein123")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "System Administrator") {
		t.Error("expected logged-in user's name on the dashboard")
	}
}

func TestDeactivationKillsSession(t *testing.T) {
	db, app := setupApp(t)
	u := seedAdmin(t, db)
	cookies := login(t, app, "admin", "letmein123")

	if err := db.Model(u).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestPublicPagesNeedNoSession(t *testing.T) {
	_, app := setupApp(t)
	for _, path := range []string{"/", "/appointment", "/login"} {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestUnknownPathIs404(t *testing.T) {
	_, app := setupApp(t)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
