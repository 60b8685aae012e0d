package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/xbm/internal/common"
)

func TestParseTweetID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"raw id", "1893456789012345678", "1893456789012345678"},
		{"raw id with spaces", "  123  ", "123"},
		{"x.com url", "https://x.com/golang/status/1893456789012345678", "1893456789012345678"},
		{"twitter url with query", "https://twitter.com/some_user/status/42?s=20", "42"},
		{"mobile url", "https://mobile.twitter.com/a/status/7/photo/1", "7"},
		{"www url", "http://www.x.com/a/status/8#top", "8"},
		{"url without scheme", " x.com/a/status/9 ", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTweetID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTweetID_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"12a",
		strings.Repeat("1", 21),
		"https://example.com/status/1",
		"https://notx.com/a/status/123",
		"fox.com/a/status/123",
		"https://x.com.evil.io/a/status/123",
		"see https://x.com/a/status/123",
		"https://x.com/a/status/123abc",
		"https://x.com/" + strings.Repeat("u", 16) + "/status/1",
		strings.Repeat("9", 501),
	} {
		_, err := ParseTweetID(in)
		assert.ErrorIs(t, err, common.ErrInvalidTweetID, "input %q", in)
	}
}
