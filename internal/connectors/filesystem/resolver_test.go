package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file URI", "file:///home/hr/inbox", "/home/hr/inbox"},
		{"file URI with spaces", "file:///home/hr/my inbox", "/home/hr/my inbox"},
		{"bare path", "/home/hr/inbox", "/home/hr/inbox"},
		{"relative path", "inbox/resumes", "inbox/resumes"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}

func TestNew_ResolvesFileURI(t *testing.T) {
	c := New("inbox", "file:///tmp/inbox")
	assert.Equal(t, "/tmp/inbox", c.RootPath())
}
