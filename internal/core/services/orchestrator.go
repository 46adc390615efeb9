package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/logger"
)

// StateObserver receives pipeline transitions. Detail is empty except for
// section progress and failure reasons.
type StateObserver func(state domain.PipelineState, detail string)

// Orchestrator runs the full résumé pipeline for one document at a time:
// normalise, chunk, index, extract each section, classify.
// Per-document state is never shared between calls.
type Orchestrator struct {
	normaliser  driven.TextNormaliser
	chunker     driven.Chunker
	indexer     *IndexBuilder
	router      *Router
	extractor   *Extractor
	concurrency int
	observer    StateObserver
	log         *zap.Logger
	now         func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithConcurrency sets how many sections are extracted in parallel.
// Values of one or less run sections sequentially.
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithStateObserver registers a transition callback.
func WithStateObserver(fn StateObserver) OrchestratorOption {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithOrchestratorLogger sets the orchestrator logger.
func WithOrchestratorLogger(l *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the metadata timestamp source.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an orchestrator from its pipeline stages.
func NewOrchestrator(
	normaliser driven.TextNormaliser,
	chunker driven.Chunker,
	indexer *IndexBuilder,
	extractor *Extractor,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		normaliser:  normaliser,
		chunker:     chunker,
		indexer:     indexer,
		router:      NewRouter(),
		extractor:   extractor,
		concurrency: 1,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) transition(state domain.PipelineState, detail string) {
	if detail == "" {
		o.log.Debug("pipeline state", zap.String("state", string(state)))
	} else {
		o.log.Debug("pipeline state", zap.String("state", string(state)), zap.String("detail", detail))
	}
	if o.observer != nil {
		o.observer(state, detail)
	}
}

func (o *Orchestrator) fail(err error) error {
	o.transition(domain.StateFailed, err.Error())
	return err
}

// Parse extracts an aggregated record from raw résumé text.
// Blank input yields an empty record without running any stage.
// Section and classification failures are recorded in the result;
// only chunking and indexing errors are returned.
func (o *Orchestrator) Parse(ctx context.Context, raw string) (*domain.AggregatedRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.NewAggregatedRecord(), nil
	}
	if o.normaliser == nil || o.chunker == nil || o.indexer == nil || o.extractor == nil {
		return nil, errors.New("orchestrator: pipeline stage not configured")
	}

	logger.Section("Extraction")

	o.transition(domain.StateNormalizing, "")
	text := o.normaliser.Normalise(raw)

	o.transition(domain.StateChunking, "")
	docID := uuid.New().String()
	chunks, err := o.chunker.Split(ctx, docID, text)
	if err != nil {
		return nil, o.fail(fmt.Errorf("chunk: %w", err))
	}
	o.log.Debug("chunked", zap.Int("chunks", len(chunks)))

	o.transition(domain.StateIndexing, "")
	index, err := o.indexer.Build(ctx, docID, chunks)
	if err != nil {
		return nil, o.fail(fmt.Errorf("index: %w", err))
	}
	defer func() {
		if cerr := index.Close(); cerr != nil {
			o.log.Warn("close index", zap.Error(cerr))
		}
	}()

	record := domain.NewAggregatedRecord()
	for _, res := range o.extractSections(ctx, index) {
		record.Sections[res.Schema] = res
	}

	o.transition(domain.StateClassifying, "")
	record.Classification = o.classify(ctx, record.Sections)

	record.Metadata = domain.RecordMetadata{
		ExtractedAt:     o.now(),
		Model:           o.extractor.ModelName(),
		ChunksProcessed: len(chunks),
		Version:         domain.RecordVersion,
	}

	if failed := record.Failures(); len(failed) > 0 {
		o.log.Warn("extraction finished with failures", zap.Int("failed", len(failed)))
	}
	o.transition(domain.StateDone, "")
	return record, nil
}

func (o *Orchestrator) extractSections(ctx context.Context, index Retriever) []domain.ExtractionResult {
	schemas := domain.Schemas()

	if o.concurrency <= 1 {
		out := make([]domain.ExtractionResult, 0, len(schemas))
		for i, d := range schemas {
			o.transition(domain.StateExtractingSections, progress(i, len(schemas), d.Name))
			out = append(out, o.extractSection(ctx, index, d))
		}
		return out
	}

	results := make(chan domain.ExtractionResult, len(schemas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, d := range schemas {
		o.transition(domain.StateExtractingSections, progress(i, len(schemas), d.Name))
		g.Go(func() error {
			results <- o.extractSection(gctx, index, d)
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	out := make([]domain.ExtractionResult, 0, len(schemas))
	for res := range results {
		out = append(out, res)
	}
	return out
}

func progress(i, n int, name domain.SchemaName) string {
	return fmt.Sprintf("%d/%d %s", i+1, n, name)
}

func (o *Orchestrator) extractSection(
	ctx context.Context, index Retriever, d domain.SchemaDescriptor,
) domain.ExtractionResult {
	text, err := o.router.Context(ctx, index, d.SchemaQuery())
	if err != nil {
		o.log.Warn("retrieval failed", zap.String(logger.FieldSchema, string(d.Name)), zap.Error(err))
		return domain.Failed(d.Name, err)
	}
	value, err := o.extractor.Extract(ctx, text, "", d)
	if err != nil {
		return domain.Failed(d.Name, err)
	}
	return domain.Succeeded(d.Name, value)
}

func (o *Orchestrator) classify(
	ctx context.Context, sections map[domain.SchemaName]domain.ExtractionResult,
) domain.ExtractionResult {
	schema := domain.ClassificationSchema()
	if !domain.HasClassifierInput(sections) {
		return domain.Failed(schema.Name, fmt.Errorf("%w: no extracted sections to classify", domain.ErrExtractionFailed))
	}
	input, err := json.Marshal(domain.NewClassifierInput(sections))
	if err != nil {
		return domain.Failed(schema.Name, fmt.Errorf("marshal classifier input: %w", err))
	}
	value, err := o.extractor.Extract(ctx, string(input), "", schema)
	if err != nil {
		return domain.Failed(schema.Name, err)
	}
	return domain.Succeeded(schema.Name, value)
}
