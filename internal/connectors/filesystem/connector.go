// Package filesystem provides an inbox connector that reads résumé files
// from a local directory and watches it for new uploads.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// ConnectorType is the connector type identifier.
const ConnectorType = "filesystem"

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

var errClosed = errors.New("filesystem connector closed")

// Connector reads résumé files (PDF, DOCX, plain text) from a directory.
// Hidden files and directories are skipped.
type Connector struct {
	sourceID string
	rootPath string

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// New creates a filesystem connector rooted at rootPath, which may be a
// file:// URI.
func New(sourceID, rootPath string) *Connector {
	return &Connector{
		sourceID: sourceID,
		rootPath: ResolvePath(rootPath),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// RootPath returns the watched directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Validate checks the root path exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	return c.checkRoot()
}

func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// FullSync walks the directory and emits every résumé file.
// Both channels are closed when the walk finishes.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.checkRoot(); err != nil {
			errs <- err
			return
		}

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != c.rootPath && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			doc, ok, err := c.read(path)
			if err != nil || !ok {
				return err
			}
			select {
			case docs <- doc:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- fmt.Errorf("walk %s: %w", c.rootPath, err)
		}
	}()

	return docs, errs
}

// Watch emits changes to résumé files under the root path until ctx is
// done or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errClosed
	}
	c.mu.Unlock()

	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addDirs(watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = watcher.Close()
		return nil, errClosed
	}
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	changes := make(chan domain.RawDocumentChange)
	go c.loop(ctx, watcher, changes)
	return changes, nil
}

func (c *Connector) addDirs(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.rootPath && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (c *Connector) loop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.RawDocumentChange) {
	defer close(changes)
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change, ok := c.toChange(watcher, event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (c *Connector) toChange(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.RawDocumentChange, bool) {
	if isHidden(filepath.Base(event.Name)) {
		return domain.RawDocumentChange{}, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if domain.MIMETypeForPath(event.Name) == "" {
			return domain.RawDocumentChange{}, false
		}
		return domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				URI:      event.Name,
				MIMEType: domain.MIMETypeForPath(event.Name),
			},
		}, true

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if event.Has(fsnotify.Create) {
				_ = watcher.Add(event.Name)
			}
			return domain.RawDocumentChange{}, false
		}
		doc, ok, err := c.read(event.Name)
		if err != nil || !ok {
			return domain.RawDocumentChange{}, false
		}
		kind := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			kind = domain.ChangeCreated
		}
		return domain.RawDocumentChange{Type: kind, Document: doc}, true
	}
	return domain.RawDocumentChange{}, false
}

// read loads a résumé file. It reports false for unsupported formats.
func (c *Connector) read(path string) (domain.RawDocument, bool, error) {
	mimeType := domain.MIMETypeForPath(path)
	if mimeType == "" {
		return domain.RawDocument{}, false, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, false, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{"source_id": c.sourceID},
	}, true, nil
}

// Close stops all watchers. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
