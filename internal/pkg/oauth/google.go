package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleService struct {
	config *oauth2.Config
}

var _ auth.Provider = (*GoogleService)(nil)

// NewGoogleService configures the Google authorization code flow. authURL and
// tokenURL override the Google endpoints when set.
func NewGoogleService(clientID string, clientSecret string, redirectURL string, scopes []string, authURL string, tokenURL string) *GoogleService {
	endpoint := google.Endpoint
	if authURL != "" {
		endpoint.AuthURL = authURL
	}
	if tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
	return &GoogleService{config: config}
}

// GenerateState generates a random state string for OAuth2 flows.
func (g *GoogleService) GenerateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// AuthorizationURL asks for offline access and forces the consent screen so a
// refresh token is always issued.
func (g *GoogleService) AuthorizationURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (g *GoogleService) Exchange(ctx context.Context, code string) (auth.Credential, error) {
	if strings.TrimSpace(code) == "" {
		return auth.Credential{}, fmt.Errorf("%w: %w", auth.ErrAuth, auth.ErrCodeValueEmpty)
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return auth.Credential{}, fmt.Errorf("%w: exchange authorization code: %w", auth.ErrAuth, describe(err))
	}
	return g.toCredential(token, ""), nil
}

func (g *GoogleService) Refresh(ctx context.Context, cred auth.Credential) (auth.Credential, error) {
	if !cred.IsExpired(time.Now()) || !cred.CanRefresh() {
		return cred, nil
	}

	token, err := g.config.TokenSource(ctx, toToken(cred)).Token()
	if err != nil {
		if isRejected(err) {
			return auth.Credential{}, fmt.Errorf("%w: refresh access token: %w", auth.ErrAuth, describe(err))
		}
		return auth.Credential{}, fmt.Errorf("%w: refresh access token: %w", auth.ErrProviderUnavailable, err)
	}
	return g.toCredential(token, cred.RefreshToken), nil
}

// toCredential keeps the previous refresh token when the provider omits one on refresh.
func (g *GoogleService) toCredential(token *oauth2.Token, previousRefresh string) auth.Credential {
	refresh := token.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	scopes := make([]string, len(g.config.Scopes))
	copy(scopes, g.config.Scopes)

	return auth.Credential{
		AccessToken:   token.AccessToken,
		RefreshToken:  refresh,
		TokenEndpoint: g.config.Endpoint.TokenURL,
		ClientID:      g.config.ClientID,
		ClientSecret:  g.config.ClientSecret,
		Scopes:        scopes,
		Expiry:        token.Expiry,
	}
}

func toToken(cred auth.Credential) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       cred.Expiry,
	}
}

// TokenSource adapts a session credential for Google API clients.
func TokenSource(cred auth.Credential) oauth2.TokenSource {
	return oauth2.StaticTokenSource(toToken(cred))
}

// isRejected reports whether the token endpoint refused the refresh token
// itself. Transport failures and 5xx responses are not rejections.
func isRejected(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	if retrieveErr.Response == nil {
		return retrieveErr.ErrorCode != ""
	}
	code := retrieveErr.Response.StatusCode
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

// describe surfaces the provider's error code, e.g. invalid_grant.
func describe(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		return fmt.Errorf("%s: %w", retrieveErr.ErrorCode, err)
	}
	return err
}
