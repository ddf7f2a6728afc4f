package auth

import (
	"context"
)

// Provider is the OAuth authorization flow plus the token lifecycle for one
// identity provider.
type Provider interface {
	// GenerateState returns a random value to round-trip through the consent screen.
	GenerateState() string
	// AuthorizationURL builds the consent URL. It performs no network call.
	AuthorizationURL(state string) string
	// Exchange trades an authorization code for a credential.
	Exchange(ctx context.Context, code string) (Credential, error)
	// Refresh renews an expired credential using its refresh token. A credential
	// that is not expired, or has no refresh token, is returned unchanged.
	Refresh(ctx context.Context, cred Credential) (Credential, error)
}
