package models

import (
	"sort"
	"time"
)

// Metrics are the public engagement counters captured at the last sync.
type Metrics struct {
	Likes       int `json:"likes"`
	Retweets    int `json:"retweets"`
	Replies     int `json:"replies"`
	Quotes      int `json:"quotes"`
	Bookmarks   int `json:"bookmarks"`
	Impressions int `json:"impressions"`
}

// CachedFields is the minimal display metadata kept for a bookmark. It is
// replaced wholesale on every sync that sees the bookmark.
type CachedFields struct {
	AuthorID       string    `json:"author_id,omitempty"`
	AuthorUsername string    `json:"author_username,omitempty"`
	AuthorName     string    `json:"author_name,omitempty"`
	Text           string    `json:"text,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
	Metrics        *Metrics  `json:"metrics,omitempty"`
}

// BookmarkEntry is one ledger row.
type BookmarkEntry struct {
	// ID is the tweet id; unique across the ledger.
	ID string `json:"id"`

	// FirstSeen is the local date the bookmark was first observed remotely.
	// It never changes once set.
	FirstSeen Date `json:"first_seen_date"`

	// Cached holds display metadata from the most recent sync.
	Cached *CachedFields `json:"cached_fields,omitempty"`
}

// Ledger maps bookmark id to entry. It is owned by the synchronizer.
type Ledger struct {
	// LastSyncedAt is nil until the first complete sync.
	LastSyncedAt *time.Time `json:"last_synced_at"`

	Entries map[string]BookmarkEntry `json:"entries"`
}

// NewLedger returns an empty ledger, the state of a first run.
func NewLedger() *Ledger {
	return &Ledger{Entries: make(map[string]BookmarkEntry)}
}

// IDs returns the ledger keys in ascending order.
func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.Entries))
	for id := range l.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RemoteBookmark is one bookmark as returned by the remote list endpoint.
type RemoteBookmark struct {
	ID     string
	Cached *CachedFields
}

// Page is one page of the remote bookmark collection. NextCursor is empty on
// the last page.
type Page struct {
	Items      []RemoteBookmark
	NextCursor string
}
