package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/client/session"
	"github.com/dmitrijs2005/xbm/internal/client/syncer"
)

func entries() []models.BookmarkEntry {
	return []models.BookmarkEntry{
		{
			ID:        "103",
			FirstSeen: models.MustParseDate("2026-02-11"),
			Cached: &models.CachedFields{
				AuthorUsername: "gopher",
				AuthorName:     "The Gopher",
				Text:           "tabs\tand\nnewlines *bold*",
				CreatedAt:      time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
				Metrics:        &models.Metrics{Likes: 5, Retweets: 2},
			},
		},
		{ID: "101", FirstSeen: models.MustParseDate("2026-02-10")},
	}
}

func render(t *testing.T, mode Mode, verbose bool, fn func(r *Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(New(&buf, mode, verbose)))
	return buf.String()
}

func TestBookmarks_Human(t *testing.T) {
	out := render(t, Human, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })

	assert.Contains(t, out, "Bookmarks (2)")
	assert.Contains(t, out, "@gopher The Gopher")
	assert.Contains(t, out, "tabs and newlines *bold*")
	assert.Contains(t, out, "bookmarked 2026-02-11")
	assert.Contains(t, out, "https://x.com/gopher/status/103")
	assert.Contains(t, out, "https://x.com/i/web/status/101")
	assert.NotContains(t, out, "♥", "metrics only in verbose mode")
	assert.NotContains(t, out, "\x1b[", "no ANSI codes when not writing to a terminal")
	assert.Less(t, strings.Index(out, "103"), strings.Index(out, "101"), "input order is kept")
}

func TestBookmarks_HumanVerbose(t *testing.T) {
	out := render(t, Human, true, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })
	assert.Contains(t, out, "♥ 5")
	assert.Contains(t, out, "posted ")
}

func TestBookmarks_HumanEmpty(t *testing.T) {
	out := render(t, Human, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", nil) })
	assert.Equal(t, "No bookmarks found.\n", out)
}

func TestBookmarks_JSON(t *testing.T) {
	out := render(t, JSON, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "103", got[0]["id"])
	assert.Equal(t, "2026-02-11", got[0]["first_seen_date"])
	assert.Equal(t, "gopher", got[0]["author_username"])
	assert.NotContains(t, got[0], "metrics")

	out = render(t, JSON, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", nil) })
	assert.Equal(t, "[]\n", out)
}

func TestBookmarks_Plain(t *testing.T) {
	out := render(t, Plain, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "id\tfirst_seen_date\tauthor_username\ttext", lines[0])
	assert.Equal(t, "103\t2026-02-11\tgopher\ttabs and newlines *bold*", lines[1])
	assert.Equal(t, "101\t2026-02-10\t\t", lines[2])

	verbose := render(t, Plain, true, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })
	header := strings.Split(strings.Split(verbose, "\n")[0], "\t")
	row := strings.Split(strings.Split(verbose, "\n")[1], "\t")
	assert.Equal(t, len(header), len(row))
}

func TestBookmarks_Markdown(t *testing.T) {
	out := render(t, Markdown, false, func(r *Renderer) error { return r.Bookmarks("Bookmarks", entries()) })

	assert.True(t, strings.HasPrefix(out, "## Bookmarks\n\n"))
	assert.Contains(t, out, `- **@gopher** _(2026-02-11)_: tabs and newlines \*bold\* [link](https://x.com/gopher/status/103)`)
	assert.Contains(t, out, "- **unknown** _(2026-02-10)_ [link](https://x.com/i/web/status/101)")
}

func TestSyncResult(t *testing.T) {
	res := &syncer.Result{SyncID: "s1", Pages: 2, Added: []string{"103"}, Updated: []string{"101"}, Removed: []string{"102"}, Total: 2}

	out := render(t, Human, false, func(r *Renderer) error { return r.SyncResult(res) })
	assert.Equal(t, "Synced: 1 new, 1 updated, 1 removed (2 bookmarks, 2 pages)\n", out)

	out = render(t, Plain, false, func(r *Renderer) error { return r.SyncResult(res) })
	assert.Contains(t, out, "removed\t1\n")

	out = render(t, JSON, false, func(r *Renderer) error { return r.SyncResult(res) })
	assert.Contains(t, out, `"sync_id": "s1"`)
}

func TestAuthStatus(t *testing.T) {
	out := render(t, Human, false, func(r *Renderer) error { return r.AuthStatus(&session.Status{}) })
	assert.Contains(t, out, "Not logged in")

	st := &session.Status{LoggedIn: true, Expired: true, ExpiresAt: time.Now(), Scopes: []string{"bookmark.read"}}
	out = render(t, Human, false, func(r *Renderer) error { return r.AuthStatus(st) })
	assert.Contains(t, out, "expired")
	assert.Contains(t, out, "Scopes: bookmark.read")

	out = render(t, JSON, false, func(r *Renderer) error { return r.AuthStatus(st) })
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, true, v["logged_in"])
	assert.Equal(t, true, v["expired"])
}

func TestAction(t *testing.T) {
	assert.Equal(t, "Bookmarked 101\n", render(t, Human, false, func(r *Renderer) error { return r.Action("101", true) }))
	assert.Equal(t, "101\tfalse\n", render(t, Plain, false, func(r *Renderer) error { return r.Action("101", false) }))
	assert.Equal(t, "**Removed bookmark** `101`\n", render(t, Markdown, false, func(r *Renderer) error { return r.Action("101", false) }))
}
