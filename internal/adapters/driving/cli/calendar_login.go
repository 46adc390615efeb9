package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/resumex/internal/adapters/driving/oauth"
	"github.com/custodia-labs/resumex/internal/connectors/google"
)

// CalendarCredentialsFile is the name of the credentials file written by
// 'settings calendar-login' under the resumex home.
const CalendarCredentialsFile = "google_credentials.json"

// Overridden in tests.
var (
	openBrowser       = oauth.OpenBrowser
	calendarOAuthConf = google.OAuthConfig
)

var settingsCalendarLoginCmd = &cobra.Command{
	Use:   "calendar-login",
	Short: "Authorise Google Calendar publishing in the browser",
	Long: `Sign in to Google and grant resumex access to calendar events.

Create an OAuth client of type "Desktop app" in the Google Cloud console and
pass its ID and secret. The granted refresh token is saved next to the
configuration and calendar publishing is switched on.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCalendarLogin,
}

func init() {
	f := settingsCalendarLoginCmd.Flags()
	f.String("client-id", "", "OAuth client ID")
	f.String("client-secret", "", "OAuth client secret")
	f.String("calendar-id", "", "target calendar ID (default: keep current)")
	f.Int("port", 0, "loopback port for the redirect (0 = any free port)")
	f.Duration("timeout", 5*time.Minute, "how long to wait for the browser")
	f.Bool("no-browser", false, "print the URL instead of opening a browser")
	settingsCmd.AddCommand(settingsCalendarLoginCmd)
}

func runSettingsCalendarLogin(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if homeDir == "" {
		return errors.New("resumex home directory not configured")
	}
	clientID, _ := cmd.Flags().GetString("client-id")
	clientSecret, _ := cmd.Flags().GetString("client-secret")
	if clientID == "" || clientSecret == "" {
		return errors.New("--client-id and --client-secret are required")
	}
	port, _ := cmd.Flags().GetInt("port")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	state, err := oauth.GenerateState()
	if err != nil {
		return err
	}
	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	conf := calendarOAuthConf(clientID, clientSecret, server.RedirectURI())
	verifier := oauth2.GenerateVerifier()
	authURL := google.AuthCodeURL(conf, state, verifier)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Open this URL to authorise resumex:\n\n  %s\n\n", authURL)
	if !noBrowser {
		if err := openBrowser(authURL); err != nil {
			fmt.Fprintf(out, "Could not open a browser (%v); open the URL manually.\n", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	code, err := server.WaitForCode(ctx)
	if err != nil {
		return fmt.Errorf("authorisation failed: %w", err)
	}
	creds, err := google.ExchangeAuthorizedUser(ctx, conf, code, verifier)
	if err != nil {
		return err
	}

	path := filepath.Join(homeDir, CalendarCredentialsFile)
	if err := os.MkdirAll(homeDir, 0o700); err != nil {
		return fmt.Errorf("create home directory: %w", err)
	}
	if err := os.WriteFile(path, creds, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Calendar.CredentialsFile = path
	if cmd.Flags().Changed("calendar-id") {
		settings.Calendar.CalendarID, _ = cmd.Flags().GetString("calendar-id")
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save calendar settings: %w", err)
	}

	fmt.Fprintf(out, "Credentials saved to %s.\n", path)
	fmt.Fprintf(out, "Meetings will be published to calendar %q.\n", settings.Calendar.CalendarID)
	return nil
}
