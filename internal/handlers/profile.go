package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/services"
)

type ProfileHandler struct {
	DB    *gorm.DB
	Creds *services.CredentialStore
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db, Creds: services.NewCredentialStore(db)}
}

func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/profile", h.show)
	mux.HandleFunc("/profile/password", h.changePassword)
}

func (h *ProfileHandler) show(w http.ResponseWriter, r *http.Request) {
	user := currentUser(h.DB, r)
	if user == nil {
		http.Redirect(w, r, "/login", statusSeeOther)
		return
	}
	renderTemplate(w, r, "profile", map[string]any{"User": user})
}

// changePassword handles POST /profile/password for the current session.
func (h *ProfileHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	user := currentUser(h.DB, r)
	if user == nil {
		http.Redirect(w, r, "/login", statusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/profile", statusSeeOther)
		return
	}
	current := r.FormValue("current")
	newPass := r.FormValue("new")
	confirm := r.FormValue("confirm")
	if len(newPass) < 8 || newPass != confirm {
		httpx.Flash(w, "New password must be at least 8 characters and match the confirmation.")
		http.Redirect(w, r, "/profile", statusSeeOther)
		return
	}
	if err := h.Creds.ChangePassword(user.ID, current, newPass); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			httpx.Flash(w, "Current password is incorrect.")
		} else {
			httpx.Flash(w, "Error changing password.")
		}
		http.Redirect(w, r, "/profile", statusSeeOther)
		return
	}
	httpx.Flash(w, "Password changed successfully.")
	http.Redirect(w, r, "/profile", statusSeeOther)
}
