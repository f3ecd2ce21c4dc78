package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/gate"
	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/models"
	"github.com/g3company/healthclinic/internal/policy"
	"github.com/g3company/healthclinic/internal/services"
)

// StaffHandler manages staff accounts. Every route is gated: only admin and
// it roles pass; everyone else is bounced to the dashboard with a visible
// denial, never an error page.
type StaffHandler struct {
	DB    *gorm.DB
	Creds *services.CredentialStore
	Gate  *gate.Gate[*models.User]
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{DB: db, Creds: services.NewCredentialStore(db), Gate: policy.NewGate()}
}

func (h *StaffHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/staff", h.gated(h.list, gate.ActionList))
	mux.HandleFunc("/staff/add", h.gated(h.add, gate.ActionCreate))
	mux.HandleFunc("/staff/edit", h.gated(h.edit, gate.ActionUpdate))
	mux.HandleFunc("/staff/delete", h.gated(h.delete, gate.ActionDelete))
}

// gated wraps a handler with the staff-management capability check.
func (h *StaffHandler) gated(next http.HandlerFunc, action gate.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(h.DB, r)
		if err := h.Gate.Authorize(r.Context(), user, action, policy.ResourceStaff, nil); err != nil {
			httpx.Flash(w, "You do not have permission to manage staff accounts.")
			http.Redirect(w, r, "/dashboard", statusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *StaffHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Creds.ListUsers()
	if err != nil {
		httpx.Flash(w, "Error loading staff accounts.")
		users = nil
	}
	renderTemplate(w, r, "staff_list", map[string]any{
		"Users": users,
		"User":  currentUser(h.DB, r),
		"Roles": []string{models.RoleAdmin, models.RoleNurse, models.RoleDoctor, models.RoleIT},
	})
}

func (h *StaffHandler) add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "staff_add", map[string]any{
			"User":  currentUser(h.DB, r),
			"Roles": []string{models.RoleAdmin, models.RoleNurse, models.RoleDoctor, models.RoleIT},
		})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/staff/add", statusSeeOther)
		return
	}
	in := services.CreateUserInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("full_name"),
		Role:     r.FormValue("role"),
		Phone:    r.FormValue("phone"),
	}
	user, err := h.Creds.CreateUser(in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateIdentifier):
			httpx.Flash(w, "Username or email already in use.")
		case errors.Is(err, services.ErrValidation):
			httpx.Flash(w, "All fields are required and the role must be admin, nurse, doctor or it.")
		default:
			httpx.Flash(w, "Error creating staff account.")
		}
		http.Redirect(w, r, "/staff/add", statusSeeOther)
		return
	}
	httpx.Flash(w, "Staff account "+user.Username+" created.")
	http.Redirect(w, r, "/staff", statusSeeOther)
}

func (h *StaffHandler) edit(w http.ResponseWriter, r *http.Request) {
	id := formID(r)
	if r.Method == http.MethodGet {
		user, err := h.Creds.GetUser(id)
		if err != nil {
			httpx.Flash(w, "Staff account not found.")
			http.Redirect(w, r, "/staff", statusSeeOther)
			return
		}
		renderTemplate(w, r, "staff_edit", map[string]any{
			"Account": user,
			"User":    currentUser(h.DB, r),
			"Roles":   []string{models.RoleAdmin, models.RoleNurse, models.RoleDoctor, models.RoleIT},
		})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/staff", statusSeeOther)
		return
	}
	in := services.UpdateUserInput{
		Email:    r.FormValue("email"),
		FullName: r.FormValue("full_name"),
		Role:     r.FormValue("role"),
		Phone:    r.FormValue("phone"),
		IsActive: r.FormValue("is_active") == "on" || r.FormValue("is_active") == "1",
		Password: r.FormValue("password"),
	}
	user, err := h.Creds.UpdateUser(id, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			httpx.Flash(w, "Staff account not found.")
		case errors.Is(err, services.ErrDuplicateIdentifier):
			httpx.Flash(w, "Email already in use.")
		case errors.Is(err, services.ErrValidation):
			httpx.Flash(w, "Email, full name and a valid role are required.")
		default:
			httpx.Flash(w, "Error updating staff account.")
		}
		http.Redirect(w, r, "/staff", statusSeeOther)
		return
	}
	httpx.Flash(w, "Staff account "+user.Username+" updated.")
	http.Redirect(w, r, "/staff", statusSeeOther)
}

func (h *StaffHandler) delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := h.Creds.DeleteUser(formID(r)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Flash(w, "Staff account not found.")
		} else {
			httpx.Flash(w, "Error deleting staff account.")
		}
	} else {
		httpx.Flash(w, "Staff account deleted.")
	}
	http.Redirect(w, r, "/staff", statusSeeOther)
}
