package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/services"
)

type PatientHandler struct {
	DB       *gorm.DB
	Registry *services.PatientRegistry
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db, Registry: services.NewPatientRegistry(db)}
}

func (h *PatientHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/patients", h.list)
	mux.HandleFunc("/patients/add", h.add)
	mux.HandleFunc("/patients/view", h.view)
	mux.HandleFunc("/patients/edit", h.edit)
	mux.HandleFunc("/patients/delete", h.delete)
}

func (h *PatientHandler) list(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	patients, err := h.Registry.Search(search)
	if err != nil {
		httpx.Flash(w, "Error loading patients.")
		patients = nil
	}
	renderTemplate(w, r, "patients_list", map[string]any{
		"Patients": patients,
		"Search":   search,
		"User":     currentUser(h.DB, r),
	})
}

func patientInputFromForm(r *http.Request) services.PatientInput {
	return services.PatientInput{
		FirstName:        r.FormValue("first_name"),
		LastName:         r.FormValue("last_name"),
		DateOfBirth:      r.FormValue("date_of_birth"),
		Gender:           r.FormValue("gender"),
		Phone:            r.FormValue("phone"),
		Email:            r.FormValue("email"),
		Address:          r.FormValue("address"),
		EmergencyContact: r.FormValue("emergency_contact"),
		EmergencyPhone:   r.FormValue("emergency_phone"),
		BloodType:        r.FormValue("blood_type"),
		Allergies:        r.FormValue("allergies"),
		MedicalNotes:     r.FormValue("medical_notes"),
	}
}

func (h *PatientHandler) add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "patients_add", map[string]any{"User": currentUser(h.DB, r)})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/patients/add", statusSeeOther)
		return
	}
	patient, err := h.Registry.Create(patientInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httpx.Flash(w, "First and last name are required.")
		case errors.Is(err, services.ErrInvalidDate):
			httpx.Flash(w, "Date of birth must be YYYY-MM-DD.")
		default:
			httpx.Flash(w, "Error adding patient.")
		}
		http.Redirect(w, r, "/patients/add", statusSeeOther)
		return
	}
	httpx.Flash(w, "Patient "+patient.FullName()+" added successfully! (ID: "+patient.PatientID+")")
	http.Redirect(w, r, "/patients", statusSeeOther)
}

func (h *PatientHandler) view(w http.ResponseWriter, r *http.Request) {
	patient, err := h.Registry.Get(formID(r))
	if err != nil {
		httpx.Flash(w, "Patient not found.")
		http.Redirect(w, r, "/patients", statusSeeOther)
		return
	}
	appts, err := h.Registry.Appointments(patient.ID)
	if err != nil {
		appts = nil
	}
	renderTemplate(w, r, "patients_view", map[string]any{
		"Patient":      patient,
		"Appointments": appts,
		"User":         currentUser(h.DB, r),
	})
}

func (h *PatientHandler) edit(w http.ResponseWriter, r *http.Request) {
	id := formID(r)
	if r.Method == http.MethodGet {
		patient, err := h.Registry.Get(id)
		if err != nil {
			httpx.Flash(w, "Patient not found.")
			http.Redirect(w, r, "/patients", statusSeeOther)
			return
		}
		renderTemplate(w, r, "patients_edit", map[string]any{"Patient": patient, "User": currentUser(h.DB, r)})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Flash(w, "Invalid form submission.")
		http.Redirect(w, r, "/patients", statusSeeOther)
		return
	}
	patient, err := h.Registry.Update(id, patientInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			httpx.Flash(w, "Patient not found.")
			http.Redirect(w, r, "/patients", statusSeeOther)
		case errors.Is(err, services.ErrInvalidDate):
			httpx.Flash(w, "Date of birth must be YYYY-MM-DD.")
			http.Redirect(w, r, "/patients/edit?id="+r.FormValue("id"), statusSeeOther)
		default:
			httpx.Flash(w, "Error updating patient.")
			http.Redirect(w, r, "/patients", statusSeeOther)
		}
		return
	}
	httpx.Flash(w, "Patient "+patient.FullName()+" updated successfully!")
	http.Redirect(w, r, "/patients/view?id="+r.FormValue("id"), statusSeeOther)
}

func (h *PatientHandler) delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := h.Registry.Delete(formID(r)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Flash(w, "Patient not found.")
		} else {
			httpx.Flash(w, "Error deleting patient.")
		}
	} else {
		httpx.Flash(w, "Patient deleted successfully!")
	}
	http.Redirect(w, r, "/patients", statusSeeOther)
}
