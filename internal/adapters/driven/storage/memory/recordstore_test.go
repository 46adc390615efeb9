package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

var base = time.Date(2025, 3, 26, 14, 0, 0, 0, time.UTC)

func resume(id string, at time.Time) *domain.StoredResume {
	return &domain.StoredResume{
		ID:         id,
		Filename:   id + ".pdf",
		UploadedAt: at,
		Parsed: map[string]any{
			"Personal_Details": map[string]any{"Full_Name": "Ada " + id},
		},
		RawTextSample: "sample",
	}
}

func TestRecordStore_ResumeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	require.NoError(t, store.SaveResume(ctx, resume("a", base)))

	got, err := store.GetResume(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada a", got.CandidateName())
	assert.Equal(t, "a.pdf", got.Filename)

	require.NoError(t, store.DeleteResume(ctx, "a"))
	_, err = store.GetResume(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.DeleteResume(ctx, "missing"))
}

func TestRecordStore_ResumeIsCopied(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	r := resume("a", base)
	require.NoError(t, store.SaveResume(ctx, r))

	r.Parsed["Personal_Details"].(map[string]any)["Full_Name"] = "Mutated"

	got, err := store.GetResume(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada a", got.CandidateName())

	got.Parsed["Personal_Details"] = nil
	again, err := store.GetResume(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada a", again.CandidateName())
}

func TestRecordStore_ListResumes(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	require.NoError(t, store.SaveResume(ctx, resume("old", base)))
	require.NoError(t, store.SaveResume(ctx, resume("new", base.Add(time.Hour))))
	require.NoError(t, store.SaveResume(ctx, resume("tie-first", base.Add(30*time.Minute))))
	require.NoError(t, store.SaveResume(ctx, resume("tie-second", base.Add(30*time.Minute))))

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all", limit: 0, want: []string{"new", "tie-second", "tie-first", "old"}},
		{name: "limited", limit: 2, want: []string{"new", "tie-second"}},
		{name: "limit above count", limit: 10, want: []string{"new", "tie-second", "tie-first", "old"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := store.ListResumes(ctx, tt.limit)
			require.NoError(t, err)
			ids := make([]string, 0, len(list))
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRecordStore_LastResume(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	_, err := store.LastResume(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SaveResume(ctx, resume("a", base)))
	require.NoError(t, store.SaveResume(ctx, resume("b", base.Add(time.Minute))))

	last, err := store.LastResume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", last.ID)
}

func TestRecordStore_SaveResume_Invalid(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	assert.ErrorIs(t, store.SaveResume(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveResume(ctx, &domain.StoredResume{}), domain.ErrInvalidInput)
}

func TestRecordStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewRecordStore()

	assert.ErrorIs(t, store.SaveResume(ctx, resume("a", base)), context.Canceled)
	_, err := store.ListResumes(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.ListMeetings(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func meeting(id string, at time.Time) *domain.StoredMeeting {
	loc := "Room 4"
	return &domain.StoredMeeting{
		ID:        id,
		CreatedAt: at,
		Meeting: domain.ScheduledMeeting{
			MeetingCandidate: domain.MeetingCandidate{
				Title:        "Sync " + id,
				Participants: []string{"Ana", "Ben"},
				Location:     &loc,
			},
			Start: at.Add(24 * time.Hour),
		},
	}
}

func TestRecordStore_Meetings(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	for i := range 3 {
		require.NoError(t, store.SaveMeeting(ctx, meeting(fmt.Sprintf("m%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := store.GetMeeting(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Sync m1", got.Meeting.Title)

	got.Meeting.Participants[0] = "Changed"
	*got.Meeting.Location = "Changed"
	again, err := store.GetMeeting(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ben"}, again.Meeting.Participants)
	assert.Equal(t, "Room 4", *again.Meeting.Location)

	list, err := store.ListMeetings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)
	assert.Equal(t, "m1", list[1].ID)

	_, err = store.GetMeeting(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.SaveMeeting(ctx, &domain.StoredMeeting{}), domain.ErrInvalidInput)
	assert.NoError(t, store.Close())
}
