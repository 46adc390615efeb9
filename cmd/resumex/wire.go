package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/adapters/driven/ai"
	"github.com/custodia-labs/resumex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resumex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/resumex/internal/adapters/driven/validator"
	vectormemory "github.com/custodia-labs/resumex/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/resumex/internal/adapters/driving/cli"
	"github.com/custodia-labs/resumex/internal/connectors/filesystem"
	"github.com/custodia-labs/resumex/internal/connectors/google/calendar"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/services"
	"github.com/custodia-labs/resumex/internal/logger"
	"github.com/custodia-labs/resumex/internal/normalisers"
	"github.com/custodia-labs/resumex/internal/postprocessors"
	"github.com/custodia-labs/resumex/internal/postprocessors/chunker"
	"github.com/custodia-labs/resumex/internal/postprocessors/cleaner"
)

// recordStore is what the services need from either storage driver.
type recordStore interface {
	driven.ResumeStore
	driven.MeetingStore
}

// app owns the resources created for one command invocation.
type app struct {
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// build wires the services. AI-backed services are left nil when no LLM is
// usable; the reason is reported by the commands that need them.
func (a *app) build(ctx context.Context) (cli.Services, error) {
	log := logger.L()

	home, err := file.DefaultDir()
	if err != nil {
		return cli.Services{}, err
	}
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return cli.Services{}, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, fmt.Errorf("load settings: %w", err)
	}

	store, err := a.openStore(home, settings.Storage)
	if err != nil {
		return cli.Services{}, err
	}

	registry := normalisers.Default()
	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := postprocessors.BuildPipeline(processors, settingsService.GetPipelineConfig())
	if err != nil {
		return cli.Services{}, err
	}

	out := cli.Services{
		Records:     services.NewRecordService(store, store),
		Settings:    settingsService,
		Normalisers: registry,
		Chunks:      pipeline,
		Home:        home,
		Inbox: func(dir string) driven.Connector {
			return filesystem.New("inbox", dir)
		},
	}

	aiResult, err := ai.Initialise(*settings, false)
	if err != nil {
		out.AIUnavailable = err
		return out, nil
	}
	a.closers = append(a.closers, aiResult.Close)
	for _, w := range aiResult.Warnings {
		log.Warn("embedding unavailable", zap.String("reason", w))
	}

	extractor, err := a.newExtractor(home, aiResult.LLMService, settings.Extraction, log)
	if err != nil {
		return cli.Services{}, err
	}

	e := settings.Extraction
	orchestrator := services.NewOrchestrator(
		cleaner.New(),
		chunker.New(chunker.WithChunkSize(e.ChunkSize), chunker.WithOverlap(e.ChunkOverlap)),
		services.NewIndexBuilder(aiResult.EmbeddingService, vectormemory.Factory(), services.WithIndexLogger(log)),
		extractor,
		services.WithConcurrency(e.Concurrency),
		services.WithOrchestratorLogger(log),
	)
	resumeService := services.NewResumeService(orchestrator, registry, store, services.WithResumeLogger(log))

	meetingOpts := []services.MeetingOption{
		services.WithMeetingThreshold(e.MeetingThreshold),
		services.WithMeetingLogger(log),
	}
	if settings.Calendar.IsConfigured() {
		publisher, err := calendar.NewPublisher(ctx, calendar.Config{
			CredentialsFile: settings.Calendar.CredentialsFile,
			CalendarID:      settings.Calendar.CalendarID,
		})
		if err != nil {
			return cli.Services{}, fmt.Errorf("calendar: %w", err)
		}
		meetingOpts = append(meetingOpts, services.WithPublisher(publisher))
	}

	out.Resume = resumeService
	out.Meeting = services.NewMeetingService(extractor, store, meetingOpts...)
	out.Ingest = services.NewIngestService(resumeService, log)
	return out, nil
}

func (a *app) openStore(home string, cfg domain.StorageSettings) (recordStore, error) {
	switch cfg.Driver {
	case domain.StorageMemory:
		return memory.NewRecordStore(), nil
	case domain.StorageSQLite, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(home, "data", sqlite.DefaultFileName)
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		return store, nil
	default:
		return nil, errors.New("invalid storage driver: " + string(cfg.Driver))
	}
}

func (a *app) newExtractor(home string, llm driven.LLMService, e domain.ExtractionSettings, log *zap.Logger) (*services.Extractor, error) {
	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}
	return services.NewExtractor(llm, validator.New(),
		services.WithRetryPolicy(services.RetryPolicy{
			MaxAttempts: e.MaxAttempts,
			Backoff:     e.Backoff,
			Jitter:      0.1,
		}),
		services.WithTemperature(e.Temperature),
		services.WithPromptStore(prompts),
		services.WithExtractorLogger(log),
	), nil
}
