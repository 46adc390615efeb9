package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, extraction tuning, calendar publishing
and storage.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the LLM and embedding providers.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to retrieve résumé sections.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for extraction and classification.`,
	RunE:  runSettingsLLM,
}

var settingsExtractionCmd = &cobra.Command{
	Use:   "extraction",
	Short: "Tune the extraction pipeline",
	Long: `Tune chunking, retries and concurrency of the extraction pipeline.

Only the flags given are changed.

Examples:
  resumex settings extraction --chunk-size 1500 --overlap 300
  resumex settings extraction --attempts 3 --backoff 2s`,
	Args: cobra.NoArgs,
	RunE: runSettingsExtraction,
}

var settingsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Configure meeting publishing",
	Long: `Configure the Google Calendar that scheduled meetings are published to.

The credentials file is a service account key or an OAuth token JSON file.
Pass an empty --credentials to disable publishing.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCalendar,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Configure record storage",
	Args:  cobra.NoArgs,
	RunE:  runSettingsStorage,
}

func init() {
	f := settingsExtractionCmd.Flags()
	f.Int("chunk-size", 0, "maximum chunk length in characters")
	f.Int("overlap", 0, "overlap between chunks in characters")
	f.Int("attempts", 0, "model calls per section")
	f.Duration("backoff", 0, "base wait between attempts")
	f.Float64("temperature", 0, "sampling temperature")
	f.Int("concurrency", 0, "sections extracted in parallel")
	f.Float64("meeting-threshold", 0, "minimum confidence to accept a meeting")

	settingsCalendarCmd.Flags().String("credentials", "", "credentials JSON file")
	settingsCalendarCmd.Flags().String("calendar-id", "", "target calendar ID")

	settingsStorageCmd.Flags().String("driver", "", "sqlite or memory")
	settingsStorageCmd.Flags().String("path", "", "database file (empty = default)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsExtractionCmd)
	settingsCmd.AddCommand(settingsCalendarCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model, settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	e := settings.Extraction
	cmd.Println("[Extraction]")
	cmd.Printf("  Chunk size: %d\n", e.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", e.ChunkOverlap)
	cmd.Printf("  Max attempts: %d\n", e.MaxAttempts)
	cmd.Printf("  Backoff: %s\n", e.Backoff)
	cmd.Printf("  Temperature: %g\n", e.Temperature)
	cmd.Printf("  Concurrency: %d\n", e.Concurrency)
	cmd.Printf("  Meeting threshold: %g\n", e.MeetingThreshold)
	cmd.Println()

	cmd.Println("[Rate Limit]")
	if settings.RateLimit.RequestsPerSecond > 0 {
		cmd.Printf("  %g requests/s, burst %d\n", settings.RateLimit.RequestsPerSecond, settings.RateLimit.Burst)
	} else {
		cmd.Println("  disabled")
	}
	cmd.Println()

	cmd.Println("[Calendar]")
	if settings.Calendar.IsConfigured() {
		cmd.Printf("  Credentials: %s\n", settings.Calendar.CredentialsFile)
		cmd.Printf("  Calendar ID: %s\n", settings.Calendar.CalendarID)
	} else {
		cmd.Println("  Publishing: disabled")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver)
	if settings.Storage.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Storage.Path)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'resumex settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, p domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", p.Description())
	cmd.Printf("  Model: %s\n", model)
	if p.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if p.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("resumex Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Embeddings select the chunks each section is extracted from.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsExtraction(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	e := settings.Extraction
	f := cmd.Flags()
	if f.Changed("chunk-size") {
		e.ChunkSize, _ = f.GetInt("chunk-size")
	}
	if f.Changed("overlap") {
		e.ChunkOverlap, _ = f.GetInt("overlap")
	}
	if f.Changed("attempts") {
		e.MaxAttempts, _ = f.GetInt("attempts")
	}
	if f.Changed("backoff") {
		e.Backoff, _ = f.GetDuration("backoff")
	}
	if f.Changed("temperature") {
		e.Temperature, _ = f.GetFloat64("temperature")
	}
	if f.Changed("concurrency") {
		e.Concurrency, _ = f.GetInt("concurrency")
	}
	if f.Changed("meeting-threshold") {
		e.MeetingThreshold, _ = f.GetFloat64("meeting-threshold")
	}

	if err := settingsService.SetExtraction(e); err != nil {
		return fmt.Errorf("failed to save extraction settings: %w", err)
	}
	cmd.Println("Extraction settings saved.")
	return nil
}

func runSettingsCalendar(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("credentials") {
		path, _ := cmd.Flags().GetString("credentials")
		if path != "" {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("credentials file: %w", err)
			}
		}
		settings.Calendar.CredentialsFile = path
	}
	if cmd.Flags().Changed("calendar-id") {
		settings.Calendar.CalendarID, _ = cmd.Flags().GetString("calendar-id")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save calendar settings: %w", err)
	}
	if settings.Calendar.IsConfigured() {
		cmd.Printf("Meetings will be published to calendar %q.\n", settings.Calendar.CalendarID)
	} else {
		cmd.Println("Calendar publishing disabled.")
	}
	return nil
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("driver") {
		d, _ := cmd.Flags().GetString("driver")
		driver := domain.StorageDriver(d)
		if !driver.IsValid() {
			return fmt.Errorf("invalid storage driver: %s", d)
		}
		settings.Storage.Driver = driver
	}
	if cmd.Flags().Changed("path") {
		settings.Storage.Path, _ = cmd.Flags().GetString("path")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save storage settings: %w", err)
	}
	cmd.Printf("Storage set to %s.\n", settings.Storage.Driver)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal and falls back
// to the line reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if reader.Buffered() == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
