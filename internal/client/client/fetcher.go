package client

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/xbm/internal/client/models"
)

// PageFetcher adapts a Client to the synchronizer, spacing page requests at
// least interval apart.
type PageFetcher struct {
	client   Client
	pageSize int
	limiter  *rate.Limiter
}

func NewPageFetcher(c Client, pageSize int, interval time.Duration) *PageFetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &PageFetcher{
		client:   c,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (f *PageFetcher) FetchPage(ctx context.Context, cursor string) (*models.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return f.client.ListBookmarks(ctx, f.pageSize, cursor)
}
