package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/services"
)

type AppointmentHandler struct {
	DB       *gorm.DB
	Ledger   *services.AppointmentLedger
	Registry *services.PatientRegistry
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{
		DB:       db,
		Ledger:   services.NewAppointmentLedger(db),
		Registry: services.NewPatientRegistry(db),
	}
}

func (h *AppointmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/appointments", h.list)
	mux.HandleFunc("/appointments/book", h.book)
	mux.HandleFunc("/appointments/view", h.view)
	mux.HandleFunc("/appointments/update-status", h.updateStatus)
	mux.HandleFunc("/appointments/delete", h.delete)
}

func appointmentInputFromForm(r *http.Request) services.AppointmentInput {
	return services.AppointmentInput{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("phone"),
		Date:       r.FormValue("appointment_date"),
		Time:       r.FormValue("appointment_time"),
		Doctor:     r.FormValue("doctor"),
		Department: r.FormValue("department"),
		Reason:     r.FormValue("reason"),
		Notes:      r.FormValue("notes"),
	}
}

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	dateFilter := r.URL.Query().Get("date")
	appts, err := h.Ledger.List(statusFilter, dateFilter)
	if err != nil {
		httpx.Flash(w, "Error loading appointments.")
		appts = nil
	}
	renderTemplate(w, r, "appointments_list", map[string]any{
		"Appointments": appts,
		"StatusFilter": statusFilter,
		"DateFilter":   dateFilter,
		"User":         currentUser(h.DB, r),
	})
}

func (h *AppointmentHandler) book(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		patients, err := h.Registry.Search("")
		if err != nil {
			httpx.Flash(w, "Error loading patients.")
			http.Redirect(w, r, "/dashboard", statusSeeOther)
			return
		}
		renderTemplate(w, r, "appointments_book", map[string]any{"Patients": patients, "User": currentUser(h.DB, r)})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/appointments/book", statusSeeOther)
		return
	}
	patientID, _ := strconv.Atoi(r.FormValue("patient_id"))
	appt, err := h.Ledger.Book(uint(patientID), appointmentInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			httpx.Flash(w, "Patient not found!")
		case errors.Is(err, services.ErrInvalidDate):
			httpx.Flash(w, "Invalid appointment date or time.")
		default:
			httpx.Flash(w, "Error booking appointment.")
		}
		http.Redirect(w, r, "/appointments/book", statusSeeOther)
		return
	}
	httpx.Flash(w, "Appointment booked successfully for "+appt.PatientName+" on "+appt.AppointmentDate.Format("2006-01-02")+"!")
	http.Redirect(w, r, "/appointments", statusSeeOther)
}

func (h *AppointmentHandler) view(w http.ResponseWriter, r *http.Request) {
	appt, err := h.Ledger.Get(formID(r))
	if err != nil {
		httpx.Flash(w, "Appointment not found.")
		http.Redirect(w, r, "/appointments", statusSeeOther)
		return
	}
	data := map[string]any{"Appointment": appt, "User": currentUser(h.DB, r)}
	if appt.PatientID != nil {
		if patient, err := h.Registry.Get(*appt.PatientID); err == nil {
			data["Patient"] = patient
		}
	}
	renderTemplate(w, r, "appointments_view", data)
}

func (h *AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/appointments", statusSeeOther)
		return
	}
	id := formID(r)
	status := r.FormValue("status")
	appt, err := h.Ledger.UpdateStatus(id, status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			httpx.Flash(w, "Appointment not found.")
			http.Redirect(w, r, "/appointments", statusSeeOther)
		case errors.Is(err, services.ErrValidation):
			httpx.Flash(w, "Unknown appointment status: "+status)
			http.Redirect(w, r, "/appointments/view?id="+r.FormValue("id"), statusSeeOther)
		default:
			httpx.Flash(w, "Error updating status.")
			http.Redirect(w, r, "/appointments", statusSeeOther)
		}
		return
	}
	httpx.Flash(w, "Appointment status updated to "+appt.Status+"!")
	http.Redirect(w, r, "/appointments/view?id="+r.FormValue("id"), statusSeeOther)
}

func (h *AppointmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := h.Ledger.Delete(formID(r)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Flash(w, "Appointment not found.")
		} else {
			httpx.Flash(w, "Error deleting appointment.")
		}
	} else {
		httpx.Flash(w, "Appointment deleted successfully!")
	}
	http.Redirect(w, r, "/appointments", statusSeeOther)
}
