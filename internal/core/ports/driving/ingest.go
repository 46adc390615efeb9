package driving

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// IngestResult reports the outcome for one inbox file.
type IngestResult struct {
	URI    string
	Parsed *ParsedResume
	Err    error
}

// IngestService parses résumés arriving through a connector.
type IngestService interface {
	// Sync parses every file currently in the inbox.
	Sync(ctx context.Context, conn driven.Connector, report func(IngestResult)) error

	// Watch parses files as they are created or modified until ctx is done.
	Watch(ctx context.Context, conn driven.Connector, report func(IngestResult)) error
}
