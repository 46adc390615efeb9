package google

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// OAuthConfig returns an authorisation code flow config for CalendarScopes.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       CalendarScopes,
		Endpoint:     googleoauth.Endpoint,
	}
}

// AuthCodeURL returns the consent page URL. Offline access and a forced
// consent prompt make Google issue a refresh token every time.
func AuthCodeURL(cfg *oauth2.Config, state, verifier string) string {
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
}

type authorizedUser struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// ExchangeAuthorizedUser trades an authorisation code for tokens and returns
// an authorised user credentials document that TokenSourceFromJSON accepts.
func ExchangeAuthorizedUser(ctx context.Context, cfg *oauth2.Config, code, verifier string) ([]byte, error) {
	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("google: exchanging authorisation code: %w", err)
	}
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("google: %w: no refresh token granted", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(authorizedUser{
		Type:         "authorized_user",
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: tok.RefreshToken,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("google: encoding credentials: %w", err)
	}
	return data, nil
}
