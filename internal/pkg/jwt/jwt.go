package jwt

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	SessionCookieName = "session"
	StateCookieName   = "oauth_state"

	tokenTypeSession = "session"
)

type Service interface {
	GenerateSessionToken(sessionID string, expiresAt time.Time) (token string, err error)
	ValidateSessionToken(tokenString string) (sessionID string, err error)
	SessionIDFromClaims(claims map[string]interface{}) (sessionID string, ok bool)
	JWTAuth() *jwtauth.JWTAuth
	SessionCookie(token string, expiresAt time.Time) *http.Cookie
	ClearSessionCookie() *http.Cookie
	StateCookie(state string) *http.Cookie
	ClearStateCookie() *http.Cookie
}

type JWTService struct {
	tokenAuth    *jwtauth.JWTAuth
	secureCookie bool
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService signs session cookies with HS256. secureCookie marks cookies
// Secure and should be set outside development.
func NewJWTService(secretKey string, secureCookie bool) Service {
	return &JWTService{
		tokenAuth:    jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		secureCookie: secureCookie,
	}
}

func (j *JWTService) GenerateSessionToken(sessionID string, expiresAt time.Time) (token string, err error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"session_id": sessionID,
		"type":       tokenTypeSession,
		"exp":        expiresAt.Unix(),
	})
	return tokenString, err
}

// ValidateSessionToken verifies the signature and expiry and returns the session ID.
func (j *JWTService) ValidateSessionToken(tokenString string) (sessionID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", err
	}

	sessionID, ok := j.SessionIDFromClaims(claims)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	return sessionID, nil
}

// SessionIDFromClaims reads the session ID from claims verified by jwtauth.
// Session IDs are UUIDv7; anything else is rejected.
func (j *JWTService) SessionIDFromClaims(claims map[string]interface{}) (string, bool) {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != tokenTypeSession {
		return "", false
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || !validator.IsValidUUID(sessionID) {
		return "", false
	}
	return sessionID, true
}

// TokenFromCookie finds the session token for jwtauth.Verify.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *JWTService) SessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// StateCookie holds the OAuth state across the consent redirect. It must be
// Lax so the browser sends it on the provider's top-level redirect back.
func (j *JWTService) StateCookie(state string) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/api/v1/auth",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearStateCookie() *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
