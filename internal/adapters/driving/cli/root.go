// Package cli provides the cobra command tree for the resumex binary.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
	"github.com/custodia-labs/resumex/internal/logger"
)

// version is set at build time via ldflags or SetVersion.
var version = "dev"

var verbose bool

// Services injected by the composition root.
var (
	resumeService      driving.ResumeService
	meetingService     driving.MeetingService
	recordService      driving.RecordService
	settingsService    driving.SettingsService
	ingestService      driving.IngestService
	normaliserRegistry driven.NormaliserRegistry
	chunkPipeline      ChunkPipeline
	newInbox           func(dir string) driven.Connector
	homeDir            string

	// aiUnavailable explains why the AI-backed services are nil.
	aiUnavailable error

	// initialise builds the services once flags are parsed.
	initialise func(ctx context.Context) (Services, error)
)

// ChunkPipeline runs the post-processors over an extracted document.
type ChunkPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
	Names() []string
}

// Services holds everything the commands need. Nil members disable the
// commands that depend on them.
type Services struct {
	Resume      driving.ResumeService
	Meeting     driving.MeetingService
	Records     driving.RecordService
	Settings    driving.SettingsService
	Ingest      driving.IngestService
	Normalisers driven.NormaliserRegistry
	Chunks      ChunkPipeline

	// Inbox opens a connector over a directory for the watch command.
	Inbox func(dir string) driven.Connector

	// Home is the resumex data directory. Calendar credentials are
	// written here.
	Home string

	// AIUnavailable is reported by commands that need an LLM.
	AIUnavailable error
}

var rootCmd = &cobra.Command{
	Use:   "resumex",
	Short: "Extract structured data from résumés",
	Long: `resumex turns résumés (PDF, DOCX, plain text) into structured records
using an LLM, and detects meeting requests in free text.

Configure a provider with 'resumex settings llm' before parsing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if initialise == nil || !needsServices(cmd) {
			return nil
		}
		s, err := initialise(cmd.Context())
		if err != nil {
			return err
		}
		SetServices(s)
		return nil
	},
}

// needsServices reports whether cmd uses the application services.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return false
	}
	return true
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show pipeline progress on stderr")
}

// SetServices injects the application services.
func SetServices(s Services) {
	resumeService = s.Resume
	meetingService = s.Meeting
	recordService = s.Records
	settingsService = s.Settings
	ingestService = s.Ingest
	normaliserRegistry = s.Normalisers
	chunkPipeline = s.Chunks
	newInbox = s.Inbox
	homeDir = s.Home
	aiUnavailable = s.AIUnavailable
}

// SetInitialiser registers a function that builds the services after flag
// parsing, so that they pick up the verbose logger. Commands that need no
// services skip it.
func SetInitialiser(fn func(ctx context.Context) (Services, error)) {
	initialise = fn
}

// SetVersion sets the version reported by 'resumex version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// notConfigured builds the error returned when a service is missing.
// AI-backed services carry the reason they could not be created.
func notConfigured(name string, needsAI bool) error {
	if needsAI && aiUnavailable != nil {
		return fmt.Errorf("%s service not configured: %w", name, aiUnavailable)
	}
	return errors.New(name + " service not configured")
}
