package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// TokenSourceFromFile reads a credentials file and returns a token source
// for CalendarScopes.
func TokenSourceFromFile(ctx context.Context, path string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("google: reading credentials: %w", err)
	}
	return TokenSourceFromJSON(ctx, data)
}

// TokenSourceFromJSON accepts three shapes:
//   - a service account key ("type": "service_account")
//   - an authorised user file written by gcloud ("type": "authorized_user")
//   - a bare OAuth2 token with an access_token field
//
// A bare token is used as-is and is not refreshed.
func TokenSourceFromJSON(ctx context.Context, data []byte) (oauth2.TokenSource, error) {
	var probe struct {
		Type        string `json:"type"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("google: %w: credentials are not JSON: %v", domain.ErrInvalidInput, err)
	}

	if probe.Type == "" && probe.AccessToken != "" {
		var tok oauth2.Token
		if err := json.Unmarshal(data, &tok); err != nil {
			return nil, fmt.Errorf("google: decoding token: %w", err)
		}
		return oauth2.StaticTokenSource(&tok), nil
	}

	creds, err := googleoauth.CredentialsFromJSON(ctx, data, CalendarScopes...)
	if err != nil {
		return nil, fmt.Errorf("google: loading credentials: %w", err)
	}
	return creds.TokenSource, nil
}
