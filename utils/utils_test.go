package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(14)
	assert.Len(t, id, 14)

	for _, r := range id {
		assert.Contains(t, string(letterRunes), string(r))
	}

	// Collisions over a handful of draws would mean the generator is broken.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[GenerateID(14)] = true
	}
	assert.Greater(t, len(seen), 95)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my file (1).png", "my_file__1_.png"},
		{"", "file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}
