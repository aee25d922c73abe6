package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdeaNumber(t *testing.T) {
	tests := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{"#42", 42, false},
		{"  7  ", 7, false},
		{"#1", 1, false},

		{"0", 0, true},
		{"-3", 0, true},
		{"#", 0, true},
		{"abc", 0, true},
		{"##4", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseIdeaNumber(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIdeaNumber)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
