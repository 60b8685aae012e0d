package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/xbm/internal/client/session"
	"github.com/dmitrijs2005/xbm/internal/client/syncer"
)

// SyncResult renders the outcome of a sync run.
func (r *Renderer) SyncResult(res *syncer.Result) error {
	switch r.mode {
	case JSON:
		return r.writeJSON(res)
	case Plain:
		r.printf("pages\t%d\nadded\t%d\nupdated\t%d\nremoved\t%d\ntotal\t%d\n",
			res.Pages, len(res.Added), len(res.Updated), len(res.Removed), res.Total)
	case Markdown:
		r.printf("## Sync\n\n- pages: %d\n- added: %d\n- updated: %d\n- removed: %d\n- total: %d\n",
			res.Pages, len(res.Added), len(res.Updated), len(res.Removed), res.Total)
	default:
		r.printf("%s %d new, %d updated, %d removed (%d bookmarks, %d pages)\n",
			r.st.ok.Render("Synced:"), len(res.Added), len(res.Updated), len(res.Removed), res.Total, res.Pages)
		if r.verbose {
			if len(res.Added) > 0 {
				r.printf("  added:   %s\n", strings.Join(res.Added, ", "))
			}
			if len(res.Removed) > 0 {
				r.printf("  removed: %s\n", strings.Join(res.Removed, ", "))
			}
		}
	}
	return nil
}

type statusView struct {
	LoggedIn  bool     `json:"logged_in"`
	ExpiresAt string   `json:"expires_at,omitempty"`
	Expired   bool     `json:"expired"`
	Scopes    []string `json:"scopes,omitempty"`
}

// AuthStatus renders the stored credential state.
func (r *Renderer) AuthStatus(st *session.Status) error {
	v := statusView{LoggedIn: st.LoggedIn, Expired: st.Expired, Scopes: st.Scopes}
	if st.LoggedIn {
		v.ExpiresAt = st.ExpiresAt.Local().Format(time.RFC3339)
	}

	switch r.mode {
	case JSON:
		return r.writeJSON(v)
	case Plain:
		r.printf("logged_in\t%t\nexpires_at\t%s\nexpired\t%t\nscopes\t%s\n",
			v.LoggedIn, v.ExpiresAt, v.Expired, strings.Join(v.Scopes, " "))
		return nil
	}

	switch {
	case !st.LoggedIn:
		r.printf("%s\n", r.st.warn.Render("Not logged in (no OAuth 2.0 tokens found). Run: xbm auth login"))
	case st.Expired:
		r.printf("%s\n", r.st.warn.Render("Logged in, but the access token is expired. It will refresh automatically on next use."))
	default:
		r.printf("%s\n", r.st.ok.Render(fmt.Sprintf("Logged in (access token valid until %s).", v.ExpiresAt)))
	}
	if st.LoggedIn && len(st.Scopes) > 0 {
		r.printf("Scopes: %s\n", strings.Join(st.Scopes, " "))
	}
	return nil
}

type actionView struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

// Action renders the result of add or remove.
func (r *Renderer) Action(id string, bookmarked bool) error {
	verb := "Removed bookmark"
	if bookmarked {
		verb = "Bookmarked"
	}

	switch r.mode {
	case JSON:
		return r.writeJSON(actionView{ID: id, Bookmarked: bookmarked})
	case Plain:
		r.printf("%s\t%t\n", id, bookmarked)
	case Markdown:
		r.printf("**%s** `%s`\n", verb, id)
	default:
		r.printf("%s %s\n", r.st.ok.Render(verb), id)
	}
	return nil
}

// Message renders a plain informational line.
func (r *Renderer) Message(msg string) error {
	switch r.mode {
	case JSON:
		return r.writeJSON(map[string]string{"message": msg})
	default:
		r.printf("%s\n", msg)
	}
	return nil
}
