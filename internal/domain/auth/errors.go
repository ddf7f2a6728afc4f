package auth

import "errors"

var (
	// ErrAuth is the category of every code-exchange and refresh failure. It is
	// fatal for the session: the caller must re-authenticate.
	ErrAuth = errors.New("authentication failed")

	// ErrProviderUnavailable is a transient token endpoint failure. The session survives it.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	ErrCredentialExpired = errors.New("credential expired and cannot be refreshed")
	ErrInvalidToken      = errors.New("invalid or expired token")

	ErrStateCookieEmpty         = errors.New("state cookie is empty")
	ErrStateParamEmpty          = errors.New("state parameter is empty")
	ErrStateMismatch            = errors.New("state mismatch")
	ErrCodeValueEmpty           = errors.New("authorization code is empty")
	ErrGoogleAccessDeniedByUser = errors.New("google access denied by user")
)
