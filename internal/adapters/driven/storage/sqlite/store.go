package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/resumex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.ResumeStore  = (*Store)(nil)
	_ driven.MeetingStore = (*Store)(nil)
)

// DefaultFileName is the database file created inside a data directory.
const DefaultFileName = "resumex.db"

// Store persists résumés and meetings in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and applies
// pending migrations. The parent directory is created with 0700.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: %w: empty database path", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for concurrent readers while a writer is active
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background(), migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// migrate applies every NNN_name.up.sql newer than the recorded version,
// each in its own transaction.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(ctx, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(ctx context.Context, version int, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Resumes ====================

// SaveResume inserts or replaces a résumé by ID.
func (s *Store) SaveResume(ctx context.Context, resume *domain.StoredResume) error {
	if resume == nil || resume.ID == "" {
		return fmt.Errorf("save resume: %w", domain.ErrInvalidInput)
	}

	parsed, err := json.Marshal(resume.Parsed)
	if err != nil {
		return fmt.Errorf("marshalling parsed data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resumes (id, filename, uploaded_at, parsed_data, raw_text_sample, candidate_name, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			uploaded_at = excluded.uploaded_at,
			parsed_data = excluded.parsed_data,
			raw_text_sample = excluded.raw_text_sample,
			candidate_name = excluded.candidate_name,
			category = excluded.category
	`, resume.ID, resume.Filename, toUnix(resume.UploadedAt), string(parsed),
		resume.RawTextSample, resume.CandidateName(), resume.Category())
	if err != nil {
		return fmt.Errorf("saving resume: %w", err)
	}
	return nil
}

const resumeColumns = "id, filename, uploaded_at, parsed_data, raw_text_sample"

// GetResume returns a résumé by ID.
func (s *Store) GetResume(ctx context.Context, id string) (*domain.StoredResume, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+resumeColumns+" FROM resumes WHERE id = ?", id)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resume %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListResumes returns résumés newest first. A limit of zero means all.
func (s *Store) ListResumes(ctx context.Context, limit int) ([]domain.StoredResume, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes ORDER BY uploaded_at DESC, rowid DESC LIMIT ?",
		sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredResume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// LastResume returns the most recently uploaded résumé.
func (s *Store) LastResume(ctx context.Context) (*domain.StoredResume, error) {
	list, err := s.ListResumes(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("last resume: %w", domain.ErrNotFound)
	}
	return &list[0], nil
}

// DeleteResume removes a résumé. Missing IDs are not an error.
func (s *Store) DeleteResume(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM resumes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	return nil
}

// ==================== Meetings ====================

// SaveMeeting inserts or replaces a meeting by ID.
func (s *Store) SaveMeeting(ctx context.Context, meeting *domain.StoredMeeting) error {
	if meeting == nil || meeting.ID == "" {
		return fmt.Errorf("save meeting: %w", domain.ErrInvalidInput)
	}

	data, err := json.Marshal(meeting.Meeting)
	if err != nil {
		return fmt.Errorf("marshalling meeting: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, created_at, title, start_at, end_at, meeting, event_link)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			title = excluded.title,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			meeting = excluded.meeting,
			event_link = excluded.event_link
	`, meeting.ID, toUnix(meeting.CreatedAt), meeting.Meeting.Title,
		toUnix(meeting.Meeting.Start), toUnix(meeting.Meeting.End), string(data), meeting.EventLink)
	if err != nil {
		return fmt.Errorf("saving meeting: %w", err)
	}
	return nil
}

const meetingColumns = "id, created_at, meeting, event_link"

// GetMeeting returns a meeting by ID.
func (s *Store) GetMeeting(ctx context.Context, id string) (*domain.StoredMeeting, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+meetingColumns+" FROM meetings WHERE id = ?", id)
	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meeting %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeetings returns meetings newest first. A limit of zero means all.
func (s *Store) ListMeetings(ctx context.Context, limit int) ([]domain.StoredMeeting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings ORDER BY created_at DESC, rowid DESC LIMIT ?",
		sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredMeeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ==================== Helpers ====================

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(row scanner) (*domain.StoredResume, error) {
	var (
		r        domain.StoredResume
		uploaded int64
		parsed   string
	)
	if err := row.Scan(&r.ID, &r.Filename, &uploaded, &parsed, &r.RawTextSample); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning resume: %w", err)
	}
	r.UploadedAt = fromUnix(uploaded)
	if err := json.Unmarshal([]byte(parsed), &r.Parsed); err != nil {
		return nil, fmt.Errorf("unmarshalling parsed data for %s: %w", r.ID, err)
	}
	return &r, nil
}

func scanMeeting(row scanner) (*domain.StoredMeeting, error) {
	var (
		m       domain.StoredMeeting
		created int64
		data    string
	)
	if err := row.Scan(&m.ID, &created, &data, &m.EventLink); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning meeting: %w", err)
	}
	m.CreatedAt = fromUnix(created)
	if err := json.Unmarshal([]byte(data), &m.Meeting); err != nil {
		return nil, fmt.Errorf("unmarshalling meeting %s: %w", m.ID, err)
	}
	return &m, nil
}

// sqlLimit maps "zero means all" onto SQLite's "negative means no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
