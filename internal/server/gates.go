package server

import (
	"net/http"

	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/pkg/access"
)

type areaSummary struct {
	Area   access.Area `json:"area"`
	Role   access.Role `json:"role"`
	UserID string      `json:"userId"`
	Path   string      `json:"path"`
}

// handleArea guards every path under the area prefix.
func (s *Server) handleArea(area access.Area) http.HandlerFunc {
	gate := access.NewGate(area)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal := auth.PrincipalFrom(ctx)

		role := access.RoleCustomer
		if principal != nil {
			role = s.deps.Roles.Resolve(ctx, principal)
		}

		d := gate.Admit(principal, role, r.URL.RequestURI())
		if s.metrics != nil {
			s.metrics.RecordGate(string(area), decisionLabel(principal, d))
		}
		if !d.Allow {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}

		writeJSON(w, http.StatusOK, areaSummary{
			Area:   area,
			Role:   role,
			UserID: principal.ID,
			Path:   r.URL.Path,
		})
	}
}

func decisionLabel(principal *access.Principal, d access.Decision) string {
	switch {
	case d.Allow:
		return "allow"
	case principal == nil:
		return "login"
	default:
		return "wrong_role"
	}
}

// handleLogin describes the area's sign-in page. It is never gated.
func (s *Server) handleLogin(area access.Area) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"area": string(area),
			"page": "login",
			"next": r.URL.Query().Get("next"),
		})
	}
}
