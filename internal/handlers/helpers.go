package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/auth"
	"github.com/g3company/healthclinic/internal/httpx"
	"github.com/g3company/healthclinic/internal/models"
	"github.com/g3company/healthclinic/internal/view"
)

const statusSeeOther = http.StatusSeeOther // PRG redirects

// renderTemplate wraps view.Render, attaching the pending flash message and
// degrading to a plain 500 when the template itself fails.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if msg, ok := httpx.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

// currentUser loads the session's staff account, if any.
func currentUser(db *gorm.DB, r *http.Request) *models.User {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		if parsed, ok2 := auth.ParseSession(r); ok2 {
			uid = parsed
		}
	}
	if uid == 0 {
		return nil
	}
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		return nil
	}
	return &user
}

// formID reads an entity id from query string or form body.
func formID(r *http.Request) uint {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	if id < 0 {
		return 0
	}
	return uint(id)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
