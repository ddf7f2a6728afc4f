package auth

import "time"

// expiryDelta treats a token as expired slightly before its real expiry.
const expiryDelta = 10 * time.Second

// Credential is the OAuth credential tuple owned by a single session.
type Credential struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token,omitempty"`
	TokenEndpoint string    `json:"token_endpoint"`
	ClientID      string    `json:"client_id"`
	ClientSecret  string    `json:"client_secret"`
	Scopes        []string  `json:"scopes"`
	Expiry        time.Time `json:"expiry"`
}

// IsExpired reports whether the access token is no longer usable at now.
// A zero expiry never expires.
func (c Credential) IsExpired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Before(c.Expiry.Add(-expiryDelta))
}

// CanRefresh reports whether a refresh token is available.
func (c Credential) CanRefresh() bool {
	return c.RefreshToken != ""
}
