package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure RecordStore implements the interfaces.
var (
	_ driven.ResumeStore  = (*RecordStore)(nil)
	_ driven.MeetingStore = (*RecordStore)(nil)
)

type entry[T any] struct {
	value T
	seq   uint64
}

// RecordStore keeps résumés and meetings in memory.
// Stored values are deep copies, so callers cannot mutate them in place.
type RecordStore struct {
	mu       sync.RWMutex
	seq      uint64
	resumes  map[string]entry[domain.StoredResume]
	meetings map[string]entry[domain.StoredMeeting]
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		resumes:  make(map[string]entry[domain.StoredResume]),
		meetings: make(map[string]entry[domain.StoredMeeting]),
	}
}

// SaveResume inserts or replaces a résumé by ID.
func (s *RecordStore) SaveResume(ctx context.Context, resume *domain.StoredResume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if resume == nil || resume.ID == "" {
		return fmt.Errorf("save resume: %w", domain.ErrInvalidInput)
	}
	stored, err := cloneResume(*resume)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.resumes[resume.ID] = entry[domain.StoredResume]{value: stored, seq: s.seq}
	return nil
}

// GetResume returns a résumé by ID.
func (s *RecordStore) GetResume(ctx context.Context, id string) (*domain.StoredResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.resumes[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resume %s: %w", id, domain.ErrNotFound)
	}
	out, err := cloneResume(e.value)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListResumes returns résumés newest first. A limit of zero means all.
func (s *RecordStore) ListResumes(ctx context.Context, limit int) ([]domain.StoredResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries := make([]entry[domain.StoredResume], 0, len(s.resumes))
	for _, e := range s.resumes {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	newestFirst(entries, func(r domain.StoredResume) time.Time { return r.UploadedAt })
	entries = truncate(entries, limit)

	out := make([]domain.StoredResume, 0, len(entries))
	for _, e := range entries {
		r, err := cloneResume(e.value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// LastResume returns the most recently uploaded résumé.
func (s *RecordStore) LastResume(ctx context.Context) (*domain.StoredResume, error) {
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
func (s *RecordStore) DeleteResume(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resumes, id)
	return nil
}

// SaveMeeting inserts or replaces a meeting by ID.
func (s *RecordStore) SaveMeeting(ctx context.Context, meeting *domain.StoredMeeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil || meeting.ID == "" {
		return fmt.Errorf("save meeting: %w", domain.ErrInvalidInput)
	}
	stored := cloneMeeting(*meeting)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.meetings[meeting.ID] = entry[domain.StoredMeeting]{value: stored, seq: s.seq}
	return nil
}

// GetMeeting returns a meeting by ID.
func (s *RecordStore) GetMeeting(ctx context.Context, id string) (*domain.StoredMeeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.meetings[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("meeting %s: %w", id, domain.ErrNotFound)
	}
	out := cloneMeeting(e.value)
	return &out, nil
}

// ListMeetings returns meetings newest first. A limit of zero means all.
func (s *RecordStore) ListMeetings(ctx context.Context, limit int) ([]domain.StoredMeeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries := make([]entry[domain.StoredMeeting], 0, len(s.meetings))
	for _, e := range s.meetings {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	newestFirst(entries, func(m domain.StoredMeeting) time.Time { return m.CreatedAt })
	entries = truncate(entries, limit)

	out := make([]domain.StoredMeeting, 0, len(entries))
	for _, e := range entries {
		out = append(out, cloneMeeting(e.value))
	}
	return out, nil
}

// Close is a no-op.
func (s *RecordStore) Close() error {
	return nil
}

// newestFirst orders by timestamp descending, then by most recent write.
func newestFirst[T any](entries []entry[T], at func(T) time.Time) {
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := at(entries[i].value), at(entries[j].value)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})
}

func truncate[T any](entries []T, limit int) []T {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// cloneResume deep-copies the parsed record through JSON, the same
// representation the SQLite store persists.
func cloneResume(r domain.StoredResume) (domain.StoredResume, error) {
	if r.Parsed == nil {
		return r, nil
	}
	data, err := json.Marshal(r.Parsed)
	if err != nil {
		return domain.StoredResume{}, fmt.Errorf("encode parsed resume: %w", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.StoredResume{}, fmt.Errorf("decode parsed resume: %w", err)
	}
	r.Parsed = parsed
	return r, nil
}

func cloneMeeting(m domain.StoredMeeting) domain.StoredMeeting {
	c := &m.Meeting.MeetingCandidate
	c.Participants = append([]string(nil), c.Participants...)
	c.CalendarLink = cloneString(c.CalendarLink)
	c.Notes = cloneString(c.Notes)
	c.Location = cloneString(c.Location)
	return m
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
