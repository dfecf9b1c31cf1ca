package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "full id", id: "a4ac7f35ed94aa06fd1b0d84603b63d5", want: "a4ac-7f35-ed94"},
		{name: "exactly twelve", id: "0123456789ab", want: "0123-4567-89ab"},
		{name: "short", id: "abcdef", want: "abcd-ef"},
		{name: "four", id: "abcd", want: "abcd"},
		{name: "empty", id: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.id))
		})
	}
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "a4ac7f35ed94", NormalizeID("A4AC-7F35-ED94"))
	assert.Equal(t, "a4ac7f35ed94", NormalizeID(" a4ac-7f35-ed94\n"))
	assert.Equal(t, "a4ac7f35ed94", NormalizeID("a4ac7f35ed94"))
}

func TestSlugFromID_RoundTrip(t *testing.T) {
	slug := "a4ac-7f35-ed94"
	assert.Equal(t, slug, SlugFromID(NormalizeID(slug)))
}
