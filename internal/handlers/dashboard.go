package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/services"
)

type DashboardHandler struct {
	DB      *gorm.DB
	Reports *services.Reports
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db, Reports: services.NewReports(db)}
}

func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/dashboard", h.show)
	mux.HandleFunc("/reports", h.reports)
}

func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"User": currentUser(h.DB, r)}
	overview, err := h.Reports.Overview()
	if err == nil {
		data["TotalPatients"] = overview.TotalPatients
		data["TotalAppointments"] = overview.TotalAppointments
		data["PendingAppointments"] = overview.PendingAppointments
	}
	if n, err := h.Reports.TodayCount(time.Now()); err == nil {
		data["TodayAppointments"] = n
	}
	if recent, err := h.Reports.Recent(5); err == nil {
		data["RecentAppointments"] = recent
	}
	renderTemplate(w, r, "dashboard", data)
}

func (h *DashboardHandler) reports(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"User": currentUser(h.DB, r)}
	overview, err := h.Reports.Overview()
	if err != nil {
		// Empty stats render as zeros; the page itself must not fail.
		overview = &services.Overview{}
	}
	data["Stats"] = overview
	renderTemplate(w, r, "reports", data)
}
