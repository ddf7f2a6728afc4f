package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService     jwt.Service
	sessionService session.Service
	frontendURL    string
}

func NewAuthHandler(jwtService jwt.Service, sessionService session.Service, frontendURL string) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:     jwtService,
		sessionService: sessionService,
		frontendURL:    frontendURL,
	}
}

// LoginWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	state := a.sessionService.GenerateState()
	http.SetCookie(w, a.jwtService.StateCookie(state))
	http.Redirect(w, r, a.sessionService.AuthorizationURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/confirm?error=%s", a.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	// The state is single use whatever the outcome.
	http.SetCookie(w, a.jwtService.ClearStateCookie())

	stateReq, err := r.Cookie(jwt.StateCookieName)
	if err != nil {
		slog.Error("State cookie not found", "error", err)
		redirectWithError("state_cookie_not_found")
		return
	}

	errorValue := r.URL.Query().Get("error")
	if errorValue == "access_denied" {
		slog.Error("Google access denied by user", "error", auth.ErrGoogleAccessDeniedByUser)
		redirectWithError("access_denied")
		return
	}
	if errorValue != "" {
		slog.Error("Error in OAuth callback", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	stateCookie := stateReq.Value
	if stateCookie == "" {
		slog.Error("State cookie is empty", "error", auth.ErrStateCookieEmpty)
		redirectWithError("state_cookie_empty")
		return
	}

	stateParam := r.URL.Query().Get("state")
	if stateParam == "" {
		slog.Error("State parameter is empty", "error", auth.ErrStateParamEmpty)
		redirectWithError("state_param_empty")
		return
	}

	if stateParam != stateCookie {
		slog.Error("State mismatch", "error", auth.ErrStateMismatch)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Error("Code value is empty", "error", auth.ErrCodeValueEmpty)
		redirectWithError("code_empty")
		return
	}

	s, err := a.sessionService.SignIn(r.Context(), code)
	if err != nil {
		slog.Error("Failed to exchange authorization code", "error", err)
		redirectWithError("token_exchange_failed")
		return
	}

	token, err := a.jwtService.GenerateSessionToken(s.ID, s.ExpiresAt)
	if err != nil {
		slog.Error("Failed to sign session token", "session_id", s.ID, "error", err)
		if signOutErr := a.sessionService.SignOut(r.Context(), s.ID); signOutErr != nil {
			slog.Error("Failed to discard session", "session_id", s.ID, "error", signOutErr)
		}
		redirectWithError("login_failed")
		return
	}
	http.SetCookie(w, a.jwtService.SessionCookie(token, s.ExpiresAt))

	slog.Info("User signed in via Google OAuth", "session_id", s.ID)
	http.Redirect(w, r, a.frontendURL+"/auth/confirm", http.StatusTemporaryRedirect)
}

// Confirm implements AuthHandler.
func (a *AuthHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	current, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrSessionNotFound)
		return
	}

	s, err := a.sessionService.Confirm(r.Context(), current.ID)
	if err != nil {
		handleSessionError(w, a.jwtService, err)
		return
	}

	message, err := a.sessionService.TakeStatus(r.Context(), s.ID)
	if err != nil {
		handleSessionError(w, a.jwtService, err)
		return
	}
	s.StatusMessage = message

	response.SuccessWithMessage(w, message, session.NewSessionResponse(s))
}

// Logout implements AuthHandler. It succeeds even when the session is already gone.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err == nil {
		if sessionID, ok := a.jwtService.SessionIDFromClaims(claims); ok {
			if err := a.sessionService.SignOut(r.Context(), sessionID); err != nil {
				slog.Error("Logout service error", "session_id", sessionID, "error", err)
				response.HandleError(w, err)
				return
			}
		}
	}

	http.SetCookie(w, a.jwtService.ClearSessionCookie())
	response.SuccessWithMessage(w, "Signed out", nil)
}
