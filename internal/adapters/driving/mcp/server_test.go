package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil record service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRecordService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Records: &mockRecordService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil record service returns error", func(t *testing.T) {
		ports := &Ports{Resumes: &mockResumeService{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingRecordService)
	})

	t.Run("records only is valid", func(t *testing.T) {
		ports := &Ports{
			Records: &mockRecordService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Resumes:  &mockResumeService{},
			Meetings: &mockMeetingService{},
			Records:  &mockRecordService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
