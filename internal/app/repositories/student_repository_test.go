package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikeFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"plain name", "Budi Santoso", "Budi Santoso"},
		{"underscore from email local part", "budi_santoso", `budi\_santoso`},
		{"percent", "100%", `100\%`},
		{"backslash", `a\b`, `a\\b`},
		{"everything", `a\_%b`, `a\\\_\%b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLikeFragment(tt.fragment))
		})
	}
}
