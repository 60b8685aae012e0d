package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/xbm/internal/client/client"
	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// PageFetcher returns one page of the remote collection. An empty cursor asks
// for the first page.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (*models.Page, error)
}

// Result summarises one run. Id lists are sorted.
type Result struct {
	SyncID   string    `json:"sync_id"`
	Pages    int       `json:"pages"`
	Added    []string  `json:"added"`
	Updated  []string  `json:"updated"`
	Removed  []string  `json:"removed"`
	Total    int       `json:"total"`
	SyncedAt time.Time `json:"synced_at"`
}

type Syncer struct {
	store ledger.Repository
	log   logging.Logger
	now   func() time.Time
}

func New(store ledger.Repository, log logging.Logger) *Syncer {
	return &Syncer{store: store, log: log, now: time.Now}
}

// SetClock overrides time.Now. The clock's location decides what "today" is.
func (s *Syncer) SetClock(now func() time.Time) {
	s.now = now
}

// run is the state of one Sync call.
type run struct {
	ledger  *models.Ledger
	today   models.Date
	seen    map[string]struct{}
	cursors map[string]struct{}
	result  *Result
}

func (r *run) merge(items []models.RemoteBookmark) {
	for _, item := range items {
		if _, dup := r.seen[item.ID]; dup {
			if e, ok := r.ledger.Entries[item.ID]; ok {
				e.Cached = item.Cached
				r.ledger.Entries[item.ID] = e
			}
			continue
		}
		r.seen[item.ID] = struct{}{}

		if e, ok := r.ledger.Entries[item.ID]; ok {
			e.Cached = item.Cached
			r.ledger.Entries[item.ID] = e
			r.result.Updated = append(r.result.Updated, item.ID)
			continue
		}

		r.ledger.Entries[item.ID] = models.BookmarkEntry{
			ID:        item.ID,
			FirstSeen: r.today,
			Cached:    item.Cached,
		}
		r.result.Added = append(r.result.Added, item.ID)
	}
}

func (r *run) removeUnseen() {
	for id := range r.ledger.Entries {
		if _, ok := r.seen[id]; !ok {
			delete(r.ledger.Entries, id)
			r.result.Removed = append(r.result.Removed, id)
		}
	}
}

func (r *run) finish() *Result {
	sort.Strings(r.result.Added)
	sort.Strings(r.result.Updated)
	sort.Strings(r.result.Removed)
	r.result.Total = len(r.ledger.Entries)
	return r.result
}

// Sync pulls every remote page through fetcher and reconciles the stored
// ledger with it.
func (s *Syncer) Sync(ctx context.Context, fetcher PageFetcher) (*Result, error) {
	syncID := uuid.NewString()
	log := s.log.With("sync_id", syncID)

	l, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	r := &run{
		ledger:  l,
		today:   models.DateOf(now),
		seen:    make(map[string]struct{}),
		cursors: make(map[string]struct{}),
		result:  &Result{SyncID: syncID},
	}

	log.Debug(ctx, "sync started", "known", len(l.Entries), "today", r.today.String())

	cursor := ""
	for page := 1; ; page++ {
		p, err := fetcher.FetchPage(ctx, cursor)
		if err != nil {
			return r.finish(), s.abort(ctx, log, r, page, err)
		}

		r.result.Pages++
		r.merge(p.Items)
		log.Debug(ctx, "page merged", "page", page, "items", len(p.Items))

		if p.NextCursor == "" {
			break
		}
		if _, repeated := r.cursors[p.NextCursor]; repeated || p.NextCursor == cursor {
			return r.finish(), s.abort(ctx, log, r, page+1,
				fmt.Errorf("%w: cursor %q returned twice", common.ErrPaginationLoop, p.NextCursor))
		}
		r.cursors[p.NextCursor] = struct{}{}
		cursor = p.NextCursor
	}

	r.removeUnseen()
	l.LastSyncedAt = &now
	r.result.SyncedAt = now

	if err := s.store.Save(ctx, l); err != nil {
		return nil, err
	}

	res := r.finish()
	log.Info(ctx, "sync finished",
		"pages", res.Pages, "added", len(res.Added), "updated", len(res.Updated),
		"removed", len(res.Removed), "total", res.Total)
	return res, nil
}

// abort saves the progress of an incomplete run and builds the fetch error.
func (s *Syncer) abort(ctx context.Context, log logging.Logger, r *run, page int, cause error) error {
	fetchErr := &RemoteFetchError{Page: page, Err: cause}

	var rle *client.RateLimitError
	if errors.As(cause, &rle) {
		fetchErr.ResetAt = rle.ResetAt
	}

	log.Warn(ctx, "sync stopped early, no removals applied",
		"page", page, "added", len(r.result.Added), "updated", len(r.result.Updated), "error", cause)

	if err := s.store.Save(ctx, r.ledger); err != nil {
		log.Error(ctx, "failed to save partial sync", "error", err)
		return errors.Join(fetchErr, err)
	}
	return fetchErr
}
