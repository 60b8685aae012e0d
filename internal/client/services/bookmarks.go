package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/xbm/internal/client/client"
	"github.com/dmitrijs2005/xbm/internal/client/datefilter"
	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/xbm/internal/client/syncer"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// BookmarkService defines the bookmark operations behind the list, sync, add
// and remove commands.
type BookmarkService interface {
	// Recent returns the newest bookmarks straight from the API.
	Recent(ctx context.Context, maxResults int) ([]models.BookmarkEntry, error)

	// Range validates since/until, syncs, and returns the ledger entries
	// first seen within the range.
	Range(ctx context.Context, since, until string) ([]models.BookmarkEntry, error)

	Sync(ctx context.Context) (*syncer.Result, error)

	// Add and Remove accept a tweet id or status URL and return the id.
	Add(ctx context.Context, idOrURL string) (string, error)
	Remove(ctx context.Context, idOrURL string) (string, error)
}

// Synchronizer is satisfied by *syncer.Syncer.
type Synchronizer interface {
	Sync(ctx context.Context, fetcher syncer.PageFetcher) (*syncer.Result, error)
}

type bookmarkService struct {
	client  client.Client
	fetcher syncer.PageFetcher
	syncer  Synchronizer
	ledger  ledger.Repository
	log     logging.Logger
	now     func() time.Time
}

func NewBookmarkService(c client.Client, fetcher syncer.PageFetcher, s Synchronizer, l ledger.Repository, log logging.Logger) BookmarkService {
	return &bookmarkService{client: c, fetcher: fetcher, syncer: s, ledger: l, log: log, now: time.Now}
}

func (s *bookmarkService) today() models.Date {
	return models.DateOf(s.now())
}

func (s *bookmarkService) Recent(ctx context.Context, maxResults int) ([]models.BookmarkEntry, error) {
	page, err := s.client.ListBookmarks(ctx, maxResults, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	// First-seen dates are shown when the ledger knows them; a broken ledger
	// must not block a plain listing.
	known, err := s.ledger.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "ledger unavailable, first-seen dates omitted", "error", err)
		known = models.NewLedger()
	}

	out := make([]models.BookmarkEntry, 0, len(page.Items))
	for _, it := range page.Items {
		e := models.BookmarkEntry{ID: it.ID, Cached: it.Cached}
		if k, ok := known.Entries[it.ID]; ok {
			e.FirstSeen = k.FirstSeen
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *bookmarkService) Range(ctx context.Context, since, until string) ([]models.BookmarkEntry, error) {
	r, err := datefilter.Resolve(since, until, s.today())
	if err != nil {
		return nil, err
	}

	if _, err := s.Sync(ctx); err != nil {
		return nil, err
	}

	l, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	return datefilter.Filter(l, r), nil
}

func (s *bookmarkService) Sync(ctx context.Context) (*syncer.Result, error) {
	return s.syncer.Sync(ctx, s.fetcher)
}

func (s *bookmarkService) Add(ctx context.Context, idOrURL string) (string, error) {
	id, err := client.ParseTweetID(idOrURL)
	if err != nil {
		return "", err
	}
	if err := s.client.AddBookmark(ctx, id); err != nil {
		return "", fmt.Errorf("failed to bookmark %s: %w", id, err)
	}
	return id, nil
}

func (s *bookmarkService) Remove(ctx context.Context, idOrURL string) (string, error) {
	id, err := client.ParseTweetID(idOrURL)
	if err != nil {
		return "", err
	}
	if err := s.client.RemoveBookmark(ctx, id); err != nil {
		return "", fmt.Errorf("failed to remove bookmark %s: %w", id, err)
	}
	return id, nil
}
