package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// SessionRequired loads the session named by the verified session cookie
// into the request context. It must run after jwtauth.Verify.
func SessionRequired(jwtService jwt.Service, sessions session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				http.SetCookie(w, jwtService.ClearSessionCookie())
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			sessionID, ok := jwtService.SessionIDFromClaims(claims)
			if !ok {
				http.SetCookie(w, jwtService.ClearSessionCookie())
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			s, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				if response.IsSessionFatal(err) {
					http.SetCookie(w, jwtService.ClearSessionCookie())
				}
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		}
		return http.HandlerFunc(hfn)
	}
}

// ActiveRequired rejects sessions whose sign-in has not been confirmed.
func ActiveRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok {
			response.HandleError(w, session.ErrSessionNotFound)
			return
		}
		if !s.IsActive() {
			response.HandleError(w, session.ErrNotConfirmed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
