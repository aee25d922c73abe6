package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My new idea", "my-new-idea"},
		{"add twitter integration", "add-twitter-integration"},
		{"Feature Request", "feature-request"},
		{"Café & Restaurant", "cafe-restaurant"},
		{"  Hello, World!  ", "hello-world"},
		{"Support   multiple---dashes", "support-multiple-dashes"},
		{"Über naïve façade", "uber-naive-facade"},
		{"Version 2.0 release", "version-2-0-release"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
