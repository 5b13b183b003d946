package handler

import (
	"net/http"

	"github.com/helpinghand-api/internal/domain"
)

// ListRoles returns the closed set of account roles.
func ListRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []string{domain.RoleAdmin, domain.RoleSeeker, domain.RoleGiver})
}
