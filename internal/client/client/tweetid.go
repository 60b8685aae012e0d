package client

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/xbm/internal/common"
)

const maxTweetRefLen = 500

var (
	statusURL = regexp.MustCompile(`^(?:https?://)?(?:(?:www|mobile)\.)?(?:twitter|x)\.com/[A-Za-z0-9_]{1,15}/status/(\d{1,20})(?:[/?#]|$)`)
	rawID     = regexp.MustCompile(`^\d{1,20}$`)
)

// ParseTweetID accepts a numeric tweet id or a status URL on x.com or
// twitter.com and returns the id.
func ParseTweetID(s string) (string, error) {
	if len(s) > maxTweetRefLen {
		return "", fmt.Errorf("%w: input longer than %d characters", common.ErrInvalidTweetID, maxTweetRefLen)
	}

	trimmed := strings.TrimSpace(s)
	if m := statusURL.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}

	if rawID.MatchString(trimmed) {
		return trimmed, nil
	}

	shown := s
	if len(shown) > 100 {
		shown = shown[:100]
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidTweetID, shown)
}
