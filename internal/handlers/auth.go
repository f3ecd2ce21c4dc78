package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/auth"
	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/services"
)

type AuthHandler struct {
	DB    *gorm.DB
	Creds *services.CredentialStore
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db, Creds: services.NewCredentialStore(db)}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		// Already-authenticated sessions go straight to the dashboard.
		if u := currentUser(h.DB, r); u != nil {
			http.Redirect(w, r, "/dashboard", statusSeeOther)
			return
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": "invalid form"})
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		renderTemplate(w, r, "login", map[string]any{"Error": "Username and password are required."})
		return
	}
	user, err := h.Creds.Authenticate(username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			renderTemplate(w, r, "login", map[string]any{"Error": "Your account has been deactivated. Contact admin."})
		case errors.Is(err, services.ErrInvalidCredentials):
			renderTemplate(w, r, "login", map[string]any{"Error": "Invalid username or password."})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			renderTemplate(w, r, "login", map[string]any{"Error": "Something went wrong. Try again."})
		}
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.Flash(w, "Welcome back, "+user.FullName+"!")
	http.Redirect(w, r, "/dashboard", statusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.Flash(w, "You have been logged out successfully.")
	http.Redirect(w, r, "/", statusSeeOther)
}
