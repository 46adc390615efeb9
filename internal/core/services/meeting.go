package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ensure MeetingService implements the interface.
var _ driving.MeetingService = (*MeetingService)(nil)

// MeetingService detects meeting requests in free text and schedules them.
type MeetingService struct {
	extractor *Extractor
	store     driven.MeetingStore
	publisher driven.CalendarPublisher
	threshold float64
	log       *zap.Logger
	now       func() time.Time
}

// MeetingOption configures a MeetingService.
type MeetingOption func(*MeetingService)

// WithPublisher publishes scheduled meetings to a calendar.
func WithPublisher(p driven.CalendarPublisher) MeetingOption {
	return func(s *MeetingService) {
		s.publisher = p
	}
}

// WithMeetingThreshold sets the minimum confidence to accept a meeting.
func WithMeetingThreshold(threshold float64) MeetingOption {
	return func(s *MeetingService) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithMeetingLogger sets the service logger.
func WithMeetingLogger(l *zap.Logger) MeetingOption {
	return func(s *MeetingService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMeetingClock overrides the creation timestamp source.
func WithMeetingClock(now func() time.Time) MeetingOption {
	return func(s *MeetingService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMeetingService creates a meeting service. The store may be nil, in
// which case scheduled meetings are not persisted.
func NewMeetingService(extractor *Extractor, store driven.MeetingStore, opts ...MeetingOption) *MeetingService {
	s := &MeetingService{
		extractor: extractor,
		store:     store,
		threshold: domain.DefaultMeetingThreshold,
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the meeting described by text, or nil when the text is
// not a calendar event or confidence is below the threshold.
func (s *MeetingService) Extract(ctx context.Context, text string) (*domain.MeetingCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("extract meeting: %w", domain.ErrLLMUnavailable)
	}

	value, err := s.extractor.Extract(ctx, text, "", domain.MeetingSchema())
	if err != nil {
		return nil, fmt.Errorf("extract meeting: %w", err)
	}
	m, ok := value.(*domain.MeetingCandidate)
	if !ok {
		return nil, fmt.Errorf("extract meeting: unexpected value %T", value)
	}

	if !m.Accepted(s.threshold) {
		s.log.Info("no valid meeting detected",
			zap.Bool("is_calendar_event", m.IsCalendarEvent),
			zap.Float64("confidence", m.ConfidenceScore),
			zap.Float64("threshold", s.threshold))
		return nil, nil
	}
	return m, nil
}

// Schedule extracts a meeting, derives its calendar fields, publishes it
// when a publisher is configured and stores it.
func (s *MeetingService) Schedule(ctx context.Context, text string) (*domain.StoredMeeting, error) {
	m, err := s.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNoMeeting
	}

	scheduled, err := m.Schedule()
	if err != nil {
		return nil, fmt.Errorf("schedule meeting: %w", err)
	}

	stored := &domain.StoredMeeting{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		Meeting:   *scheduled,
	}

	if s.publisher != nil {
		link, err := s.publisher.Publish(ctx, scheduled)
		if err != nil {
			return nil, fmt.Errorf("publish meeting: %w", err)
		}
		stored.EventLink = link
	}

	if s.store != nil {
		if err := s.store.SaveMeeting(ctx, stored); err != nil {
			return nil, fmt.Errorf("save meeting: %w", err)
		}
	}

	s.log.Info("meeting scheduled",
		zap.String("id", stored.ID),
		zap.String("title", scheduled.Title),
		zap.Time("start", scheduled.Start))
	return stored, nil
}
