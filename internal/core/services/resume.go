package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ensure ResumeService implements the interface.
var _ driving.ResumeService = (*ResumeService)(nil)

// Parser turns résumé text into an aggregated record.
type Parser interface {
	Parse(ctx context.Context, text string) (*domain.AggregatedRecord, error)
}

// Ensure Orchestrator satisfies Parser.
var _ Parser = (*Orchestrator)(nil)

// ResumeService parses résumé files and persists the results.
type ResumeService struct {
	parser      Parser
	normalisers driven.NormaliserRegistry
	store       driven.ResumeStore
	log         *zap.Logger
	now         func() time.Time
}

// ResumeOption configures a ResumeService.
type ResumeOption func(*ResumeService)

// WithResumeLogger sets the service logger.
func WithResumeLogger(l *zap.Logger) ResumeOption {
	return func(s *ResumeService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithResumeClock overrides the upload timestamp source.
func WithResumeClock(now func() time.Time) ResumeOption {
	return func(s *ResumeService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewResumeService creates a résumé service. The store may be nil, in
// which case nothing is persisted.
func NewResumeService(
	parser Parser,
	normalisers driven.NormaliserRegistry,
	store driven.ResumeStore,
	opts ...ResumeOption,
) *ResumeService {
	s := &ResumeService{
		parser:      parser,
		normalisers: normalisers,
		store:       store,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse runs the extraction pipeline over plain text.
func (s *ResumeService) Parse(ctx context.Context, text string) (*domain.AggregatedRecord, error) {
	return s.parser.Parse(ctx, text)
}

// ParseFile reads a résumé from disk and parses it.
func (s *ResumeService) ParseFile(ctx context.Context, path string, opts driving.ParseOptions) (*driving.ParsedResume, error) {
	mimeType := domain.MIMETypeForPath(path)
	if mimeType == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ParseDocument(ctx, filepath.Base(path), mimeType, content, opts)
}

// ParseDocument extracts text from uploaded bytes and parses it. The
// filename is prepended to the text so it can inform extraction.
func (s *ResumeService) ParseDocument(
	ctx context.Context, filename, mimeType string, content []byte, opts driving.ParseOptions,
) (*driving.ParsedResume, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("parse %s: %w", filename, domain.ErrEmptyDocument)
	}
	if s.normalisers == nil {
		return nil, fmt.Errorf("parse %s: no normalisers configured", filename)
	}

	result, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		URI:      filename,
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", filename, err)
	}
	text := result.Document.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("parse %s: %w", filename, domain.ErrEmptyDocument)
	}

	s.log.Debug("text extracted", zap.String("file", filename), zap.Int("length", len(text)))

	record, err := s.parser.Parse(ctx, filename+"\n\n"+text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	out := &driving.ParsedResume{Record: record}
	if opts.NoSave || s.store == nil {
		return out, nil
	}

	parsed, err := record.ToMap()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", filename, err)
	}
	stored := &domain.StoredResume{
		ID:            uuid.New().String(),
		Filename:      filename,
		UploadedAt:    s.now(),
		Parsed:        parsed,
		RawTextSample: domain.RawTextSample(text),
	}
	if err := s.store.SaveResume(ctx, stored); err != nil {
		return nil, fmt.Errorf("save %s: %w", filename, err)
	}
	out.Stored = stored

	s.log.Info("résumé stored", zap.String("id", stored.ID), zap.String("file", filename))
	return out, nil
}
