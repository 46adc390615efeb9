package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService parses résumés arriving through a connector.
// Files whose content has already been parsed are skipped.
type IngestService struct {
	resumes driving.ResumeService
	log     *zap.Logger

	mu   sync.Mutex
	seen map[string][sha256.Size]byte
}

// NewIngestService creates an ingest service.
func NewIngestService(resumes driving.ResumeService, l *zap.Logger) *IngestService {
	if l == nil {
		l = zap.NewNop()
	}
	return &IngestService{
		resumes: resumes,
		log:     l,
		seen:    make(map[string][sha256.Size]byte),
	}
}

// Sync parses every file currently in the inbox.
func (s *IngestService) Sync(ctx context.Context, conn driven.Connector, report func(driving.IngestResult)) error {
	if err := conn.Validate(ctx); err != nil {
		return fmt.Errorf("validate inbox: %w", err)
	}

	docs, errs := conn.FullSync(ctx)
	for doc := range docs {
		s.handle(ctx, doc, report)
	}
	for err := range errs {
		if err != nil {
			return fmt.Errorf("sync inbox: %w", err)
		}
	}
	return nil
}

// Watch parses files as they are created or modified until ctx is done.
func (s *IngestService) Watch(ctx context.Context, conn driven.Connector, report func(driving.IngestResult)) error {
	changes, err := conn.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch inbox: %w", err)
	}
	for change := range changes {
		if change.Type == domain.ChangeDeleted {
			s.forget(change.Document.URI)
			continue
		}
		s.handle(ctx, change.Document, report)
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *IngestService) handle(ctx context.Context, doc domain.RawDocument, report func(driving.IngestResult)) {
	if len(doc.Content) == 0 {
		// Freshly created files are often empty until the first write lands.
		return
	}
	if !s.markSeen(doc) {
		s.log.Debug("unchanged file skipped", zap.String("uri", doc.URI))
		return
	}

	parsed, err := s.resumes.ParseDocument(ctx, doc.Filename(), doc.MIMEType, doc.Content, driving.ParseOptions{})
	if err != nil {
		s.forget(doc.URI)
		s.log.Warn("ingest failed", zap.String("uri", doc.URI), zap.Error(err))
	} else {
		s.log.Info("ingested", zap.String("uri", doc.URI))
	}
	if report != nil {
		report(driving.IngestResult{URI: doc.URI, Parsed: parsed, Err: err})
	}
}

func (s *IngestService) markSeen(doc domain.RawDocument) bool {
	sum := sha256.Sum256(doc.Content)
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.seen[doc.URI]; ok && prev == sum {
		return false
	}
	s.seen[doc.URI] = sum
	return true
}

func (s *IngestService) forget(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, uri)
}
