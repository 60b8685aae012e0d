package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/xbm/internal/client/client"
	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// fakeFetcher serves pages keyed by cursor; "" is the first page.
type fakeFetcher struct {
	pages  map[string]*models.Page
	errs   map[string]error
	cursor []string
}

func (f *fakeFetcher) FetchPage(ctx context.Context, cursor string) (*models.Page, error) {
	f.cursor = append(f.cursor, cursor)
	if err, ok := f.errs[cursor]; ok {
		return nil, err
	}
	p, ok := f.pages[cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", cursor)
	}
	return p, nil
}

func item(id, text string) models.RemoteBookmark {
	return models.RemoteBookmark{ID: id, Cached: &models.CachedFields{AuthorUsername: "gopher", Text: text}}
}

// remote splits ids into pages of size per page.
func remote(per int, ids ...string) *fakeFetcher {
	f := &fakeFetcher{pages: map[string]*models.Page{}, errs: map[string]error{}}
	cursor := ""
	for i := 0; i < len(ids) || i == 0; i += per {
		end := i + per
		if end > len(ids) {
			end = len(ids)
		}
		p := &models.Page{}
		for _, id := range ids[i:end] {
			p.Items = append(p.Items, item(id, "text "+id))
		}
		if end < len(ids) {
			p.NextCursor = fmt.Sprintf("c%d", end)
		}
		f.pages[cursor] = p
		cursor = p.NextCursor
	}
	return f
}

func day(d int) func() time.Time {
	return func() time.Time { return time.Date(2026, 2, d, 9, 30, 0, 0, time.Local) }
}

func newSyncer(t *testing.T) (*Syncer, *ledger.FileRepository) {
	t.Helper()
	repo := ledger.NewFileRepository(filepath.Join(t.TempDir(), common.LedgerFileName))
	return New(repo, logging.Nop()), repo
}

func load(t *testing.T, repo *ledger.FileRepository) *models.Ledger {
	t.Helper()
	l, err := repo.Load(context.Background())
	require.NoError(t, err)
	return l
}

func firstSeen(l *models.Ledger) map[string]string {
	out := make(map[string]string, len(l.Entries))
	for id, e := range l.Entries {
		out[id] = e.FirstSeen.String()
	}
	return out
}

func TestSync_Scenario(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)

	s.SetClock(day(10))
	res, err := s.Sync(ctx, remote(100, "101", "102"))
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, res.Added)
	assert.Equal(t, map[string]string{"101": "2026-02-10", "102": "2026-02-10"}, firstSeen(load(t, repo)))

	s.SetClock(day(11))
	res, err = s.Sync(ctx, remote(100, "101", "103"))
	require.NoError(t, err)
	assert.Equal(t, []string{"103"}, res.Added)
	assert.Equal(t, []string{"101"}, res.Updated)
	assert.Equal(t, []string{"102"}, res.Removed)
	assert.Equal(t, 2, res.Total)

	l := load(t, repo)
	assert.Equal(t, map[string]string{"101": "2026-02-10", "103": "2026-02-11"}, firstSeen(l))
	require.NotNil(t, l.LastSyncedAt)
	assert.True(t, day(11)().Equal(*l.LastSyncedAt))
}

func TestSync_DiffCorrectness(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)

	s.SetClock(day(1))
	_, err := s.Sync(ctx, remote(100, "A", "B"))
	require.NoError(t, err)

	s.SetClock(day(5))
	_, err = s.Sync(ctx, remote(100, "B", "C"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"B": "2026-02-01", "C": "2026-02-05"}, firstSeen(load(t, repo)))
}

var lastSynced = regexp.MustCompile(`"last_synced_at": "[^"]*"`)

func TestSync_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)
	f := remote(2, "1", "2", "3", "4", "5")

	s.SetClock(day(10))
	_, err := s.Sync(ctx, f)
	require.NoError(t, err)
	first, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	s.SetClock(day(12))
	res, err := s.Sync(ctx, f)
	require.NoError(t, err)
	second, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
	assert.Len(t, res.Updated, 5)
	assert.NotEqual(t, string(first), string(second), "last_synced_at must advance")
	assert.Equal(t,
		lastSynced.ReplaceAllString(string(first), ""),
		lastSynced.ReplaceAllString(string(second), ""))
}

func TestSync_FirstSeenImmutable(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)

	s.SetClock(day(1))
	_, err := s.Sync(ctx, remote(100, "7"))
	require.NoError(t, err)

	for d := 2; d <= 6; d++ {
		f := remote(100, "7")
		f.pages[""].Items[0].Cached.Text = fmt.Sprintf("edited on day %d", d)

		s.SetClock(day(d))
		_, err := s.Sync(ctx, f)
		require.NoError(t, err)

		e := load(t, repo).Entries["7"]
		assert.Equal(t, "2026-02-01", e.FirstSeen.String())
		assert.Equal(t, fmt.Sprintf("edited on day %d", d), e.Cached.Text)
	}
}

func TestSync_FollowsAllPages(t *testing.T) {
	s, repo := newSyncer(t)
	s.SetClock(day(3))
	f := remote(2, "1", "2", "3", "4", "5")

	res, err := s.Sync(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, []string{"", "c2", "c4"}, f.cursor)
	assert.Len(t, load(t, repo).Entries, 5)
}

func TestSync_EmptyRemoteClearsLedger(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)
	s.SetClock(day(3))

	_, err := s.Sync(ctx, remote(100, "1", "2"))
	require.NoError(t, err)

	res, err := s.Sync(ctx, remote(100))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, res.Removed)
	assert.Empty(t, load(t, repo).Entries)
}

func TestSync_PartialFailureKeepsProgress(t *testing.T) {
	ctx := context.Background()
	s, repo := newSyncer(t)

	s.SetClock(day(1))
	_, err := s.Sync(ctx, remote(100, "old"))
	require.NoError(t, err)
	before := load(t, repo).LastSyncedAt

	reset := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	f := remote(2, "1", "2", "3", "4")
	f.errs["c2"] = &client.RateLimitError{ResetAt: reset}

	s.SetClock(day(2))
	res, err := s.Sync(ctx, f)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteFetch)
	assert.ErrorIs(t, err, common.ErrRateLimited)

	var rfe *RemoteFetchError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, 2, rfe.Page)
	assert.True(t, reset.Equal(rfe.ResetAt))

	require.NotNil(t, res)
	assert.Equal(t, []string{"1", "2"}, res.Added)
	assert.Empty(t, res.Removed)

	l := load(t, repo)
	assert.Equal(t, map[string]string{"old": "2026-02-01", "1": "2026-02-02", "2": "2026-02-02"}, firstSeen(l))
	require.NotNil(t, l.LastSyncedAt)
	assert.True(t, before.Equal(*l.LastSyncedAt), "last_synced_at must not advance on a partial sync")
}

func TestSync_FirstPageFailure(t *testing.T) {
	s, repo := newSyncer(t)
	f := remote(100, "1")
	f.errs[""] = errors.New("connection reset")

	_, err := s.Sync(context.Background(), f)
	var rfe *RemoteFetchError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, 1, rfe.Page)
	assert.True(t, rfe.ResetAt.IsZero())

	l := load(t, repo)
	assert.Nil(t, l.LastSyncedAt)
	assert.Empty(t, l.Entries)
}

func TestSync_PaginationLoop(t *testing.T) {
	s, repo := newSyncer(t)
	s.SetClock(day(4))

	f := &fakeFetcher{pages: map[string]*models.Page{
		"":  {Items: []models.RemoteBookmark{item("1", "a")}, NextCursor: "x"},
		"x": {Items: []models.RemoteBookmark{item("2", "b")}, NextCursor: "x"},
	}}

	_, err := s.Sync(context.Background(), f)
	require.ErrorIs(t, err, common.ErrPaginationLoop)
	assert.ErrorIs(t, err, common.ErrRemoteFetch)
	assert.Equal(t, []string{"", "x"}, f.cursor)

	assert.Len(t, load(t, repo).Entries, 2)
}

func TestSync_DuplicateAcrossPages(t *testing.T) {
	s, repo := newSyncer(t)
	s.SetClock(day(4))

	f := &fakeFetcher{pages: map[string]*models.Page{
		"":  {Items: []models.RemoteBookmark{item("1", "a"), item("2", "b")}, NextCursor: "n"},
		"n": {Items: []models.RemoteBookmark{item("2", "b2")}},
	}}

	res, err := s.Sync(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, res.Added)
	assert.Equal(t, "b2", load(t, repo).Entries["2"].Cached.Text)
}

func TestSync_CorruptLedgerIsNotTouched(t *testing.T) {
	s, repo := newSyncer(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("{not json"), 0o600))

	f := remote(100, "1")
	_, err := s.Sync(context.Background(), f)
	require.ErrorIs(t, err, common.ErrCorruptLedger)
	assert.Empty(t, f.cursor, "no network call on a corrupt ledger")

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestSync_ResultCarriesSyncID(t *testing.T) {
	s, _ := newSyncer(t)
	a, err := s.Sync(context.Background(), remote(100, "1"))
	require.NoError(t, err)
	b, err := s.Sync(context.Background(), remote(100, "1"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.SyncID)
	assert.NotEqual(t, a.SyncID, b.SyncID)
}
