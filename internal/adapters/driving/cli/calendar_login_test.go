package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/resumex/internal/connectors/google"
)

// stubCalendarLogin points the token exchange at a test server and replaces
// the browser with a client that follows the redirect.
func stubCalendarLogin(t *testing.T, tokenBody string) {
	t.Helper()
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenBody))
	}))
	t.Cleanup(tokens.Close)

	prevConf, prevOpen := calendarOAuthConf, openBrowser
	t.Cleanup(func() { calendarOAuthConf, openBrowser = prevConf, prevOpen })

	calendarOAuthConf = func(id, secret, redirect string) *oauth2.Config {
		c := google.OAuthConfig(id, secret, redirect)
		c.Endpoint = oauth2.Endpoint{TokenURL: tokens.URL, AuthStyle: oauth2.AuthStyleInParams}
		return c
	}
	openBrowser = func(raw string) error {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		q := u.Query()
		callback := q.Get("redirect_uri") + "?" + url.Values{"code": {"code-1"}, "state": {q.Get("state")}}.Encode()
		go func() {
			if resp, err := http.Get(callback); err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestSettingsCalendarLogin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	homeDir = t.TempDir()
	stubCalendarLogin(t, `{"access_token":"a","refresh_token":"refresh-1","token_type":"Bearer","expires_in":3600}`)

	out, err := executeCommand(t, "", "settings", "calendar-login",
		"--client-id", "client", "--client-secret", "secret", "--calendar-id", "hiring")
	require.NoError(t, err)

	path := filepath.Join(homeDir, CalendarCredentialsFile)
	assert.Contains(t, out, "accounts.google.com")
	assert.Contains(t, out, "Credentials saved to "+path)
	assert.Contains(t, out, `calendar "hiring"`)
	assert.Equal(t, path, ts.settings.settings.Calendar.CredentialsFile)
	assert.Equal(t, "hiring", ts.settings.settings.Calendar.CalendarID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "authorized_user", doc["type"])
	assert.Equal(t, "refresh-1", doc["refresh_token"])
}

func TestSettingsCalendarLogin_NoRefreshToken(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	homeDir = t.TempDir()
	stubCalendarLogin(t, `{"access_token":"a","token_type":"Bearer"}`)

	_, err := executeCommand(t, "", "settings", "calendar-login", "--client-id", "c", "--client-secret", "s")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no refresh token")
	assert.Empty(t, ts.settings.settings.Calendar.CredentialsFile)
}

func TestSettingsCalendarLogin_Validation(t *testing.T) {
	tests := []struct {
		name    string
		home    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing client",
			home:    "/tmp",
			args:    []string{"--client-secret", "s"},
			wantErr: "--client-id and --client-secret are required",
		},
		{
			name:    "no home",
			args:    []string{"--client-id", "c", "--client-secret", "s"},
			wantErr: "home directory not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()
			homeDir = tt.home

			_, err := executeCommand(t, "", append([]string{"settings", "calendar-login"}, tt.args...)...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
