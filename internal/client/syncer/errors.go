package syncer

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/xbm/internal/common"
)

// RemoteFetchError reports the page that could not be fetched. ResetAt is
// set when the provider announced when its rate limit resets.
type RemoteFetchError struct {
	Page    int
	ResetAt time.Time
	Err     error
}

func (e *RemoteFetchError) Error() string {
	msg := fmt.Sprintf("failed to fetch bookmarks page %d: %v", e.Page, e.Err)
	if !e.ResetAt.IsZero() {
		msg += fmt.Sprintf(" (retry after %s)", e.ResetAt.Local().Format("15:04:05"))
	}
	return msg
}

func (e *RemoteFetchError) Unwrap() []error {
	return []error{common.ErrRemoteFetch, e.Err}
}
