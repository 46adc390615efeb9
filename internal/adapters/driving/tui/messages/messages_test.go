package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_String(t *testing.T) {
	tests := []struct {
		c    Collection
		want string
	}{
		{CollectionResumes, "Résumés"},
		{CollectionMeetings, "Meetings"},
		{Collection(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}

func TestCollection_Next(t *testing.T) {
	assert.Equal(t, CollectionMeetings, CollectionResumes.Next())
	assert.Equal(t, CollectionResumes, CollectionMeetings.Next())
}

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "list", ViewList.String())
	assert.Equal(t, "detail", ViewDetail.String())
	assert.Equal(t, "unknown", ViewType(99).String())
}
