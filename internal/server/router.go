package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/auth"
	"github.com/g3company/healthclinic/internal/handlers"
	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/models"
)

// New constructs the root http.Handler with all routes and middleware.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// A session only stays valid while the account exists and is active;
	// deactivating a user kills their session on the next request.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		err := db.Model(&models.User{}).Where("id = ? AND is_active = ?", uid, true).Limit(1).Count(&count).Error
		return err == nil && count > 0
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	public := handlers.NewPublicHandler(db)
	public.Register(mux)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		public.Index(w, r)
	})

	handlers.NewAuthHandler(db).Register(mux)

	// Staff-only area: every route behind a valid, active session.
	protected := http.NewServeMux()
	handlers.NewDashboardHandler(db).Register(protected)
	handlers.NewPatientHandler(db).Register(protected)
	handlers.NewAppointmentHandler(db).Register(protected)
	handlers.NewStaffHandler(db).Register(protected)
	handlers.NewProfileHandler(db).Register(protected)
	guarded := auth.RequireAuth(protected)
	for _, prefix := range []string{"/dashboard", "/reports", "/patients", "/patients/", "/appointments", "/appointments/", "/staff", "/staff/", "/profile", "/profile/"} {
		mux.Handle(prefix, guarded)
	}

	return auth.Middleware(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Any("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
