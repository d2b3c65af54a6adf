package server

import (
	"net/http"

	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/pkg/access"
	"go.uber.org/zap"
)

const callbackFailedPath = "/login?error=auth_callback_failed"

// handleAuthCallback completes a PKCE sign-in: it exchanges the code, sets
// the session cookies and sends the account to its landing page.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.URL.Query().Get("code")
	if code == "" || s.deps.Exchanger == nil {
		http.Redirect(w, r, callbackFailedPath, http.StatusSeeOther)
		return
	}

	var verifier string
	if c, err := r.Cookie(auth.CookieCodeVerifier); err == nil {
		verifier = c.Value
	}

	session, err := s.deps.Exchanger.ExchangeCode(ctx, code, verifier)
	if err != nil {
		s.logger.Ctx(ctx).Warn("Auth code exchange failed", zap.Error(err))
		http.Redirect(w, r, callbackFailedPath, http.StatusSeeOther)
		return
	}

	principal, err := s.deps.Authenticator.Verify(session.AccessToken)
	if err != nil {
		s.logger.Ctx(ctx).Warn("Exchanged token failed verification", zap.Error(err))
		http.Redirect(w, r, callbackFailedPath, http.StatusSeeOther)
		return
	}

	s.setSessionCookies(w, session)
	http.SetCookie(w, &http.Cookie{Name: auth.CookieCodeVerifier, Value: "", Path: "/", MaxAge: -1})

	role := s.deps.Roles.Resolve(ctx, principal)
	target := access.RouteFor(role, access.ParseNext(r.URL.Query().Get("next")))
	s.logger.Ctx(ctx).Info("Signed in",
		zap.String("user_id", principal.ID),
		zap.String("role", role.String()),
		zap.String("redirect", target),
	)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) setSessionCookies(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieAccessToken,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   session.ExpiresIn,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	if session.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieRefreshToken,
			Value:    session.RefreshToken,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// handleLanding reports where the current principal should go.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := auth.PrincipalFrom(ctx)
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	next := access.NoNext
	if q := r.URL.Query(); q.Has("next") {
		next = access.ParseNext(q.Get("next"))
	}
	role := s.deps.Roles.Resolve(ctx, principal)
	writeJSON(w, http.StatusOK, map[string]string{
		"path": access.RouteFor(role, next),
		"role": role.String(),
	})
}
