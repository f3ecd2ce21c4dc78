package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/services"
	"github.com/g3company/healthclinic/internal/validation"
)

// PublicHandler serves the unauthenticated pages: the landing page and the
// self-service appointment request form.
type PublicHandler struct {
	DB     *gorm.DB
	Ledger *services.AppointmentLedger
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{DB: db, Ledger: services.NewAppointmentLedger(db)}
}

func (h *PublicHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/appointment", h.appointment)
}

// Index renders the public landing page.
func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "index", map[string]any{"User": currentUser(h.DB, r)})
}

func (h *PublicHandler) appointment(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "appointment", nil)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, "appointment", map[string]any{"Error": "Invalid form submission."})
		return
	}
	in := appointmentInputFromForm(r)
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("reason", in.Reason, v)
	validation.Required("appointment_date", in.Date, v)
	validation.ISODate("appointment_date", in.Date, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "appointment", map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	// A returning patient may supply their P##### card number; an unknown
	// number is not an error, the request just stays unlinked.
	_, err := h.Ledger.SubmitPublicRequest(in, r.FormValue("patient_ref"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			renderTemplate(w, r, "appointment", map[string]any{"Error": "The requested date or time is invalid.", "Form": r.Form})
		case errors.Is(err, services.ErrValidation):
			renderTemplate(w, r, "appointment", map[string]any{"Error": "Please tell us the reason for your visit.", "Form": r.Form})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			renderTemplate(w, r, "appointment", map[string]any{"Error": "Something went wrong. Please call the front desk."})
		}
		return
	}
	httpx.Flash(w, "Your appointment request has been received. We will contact you to confirm.")
	http.Redirect(w, r, "/appointment", statusSeeOther)
}
