package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/xbm/internal/client/models"
)

// bookmarkView is the flattened form used by json, plain and markdown.
type bookmarkView struct {
	ID             string          `json:"id"`
	FirstSeen      string          `json:"first_seen_date,omitempty"`
	AuthorID       string          `json:"author_id,omitempty"`
	AuthorUsername string          `json:"author_username,omitempty"`
	AuthorName     string          `json:"author_name,omitempty"`
	Text           string          `json:"text,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	URL            string          `json:"url"`
	Metrics        *models.Metrics `json:"metrics,omitempty"`
}

func (r *Renderer) view(e models.BookmarkEntry) bookmarkView {
	v := bookmarkView{ID: e.ID, FirstSeen: e.FirstSeen.String()}
	if c := e.Cached; c != nil {
		v.AuthorID = c.AuthorID
		v.AuthorUsername = c.AuthorUsername
		v.AuthorName = c.AuthorName
		v.Text = c.Text
		if r.verbose {
			v.CreatedAt = formatTime(c.CreatedAt)
			v.Metrics = c.Metrics
		}
	}
	v.URL = StatusURL(v.AuthorUsername, v.ID)
	return v
}

// Bookmarks renders a list of bookmarks under title.
func (r *Renderer) Bookmarks(title string, entries []models.BookmarkEntry) error {
	views := make([]bookmarkView, len(entries))
	for i, e := range entries {
		views[i] = r.view(e)
	}

	switch r.mode {
	case JSON:
		return r.writeJSON(views)
	case Plain:
		r.plainBookmarks(views)
	case Markdown:
		r.markdownBookmarks(title, views)
	default:
		r.humanBookmarks(title, views)
	}
	return nil
}

func (r *Renderer) humanBookmarks(title string, views []bookmarkView) {
	if len(views) == 0 {
		r.printf("%s\n", r.st.muted.Render("No bookmarks found."))
		return
	}

	r.printf("%s %s\n\n", r.st.title.Render(title), r.st.muted.Render(fmt.Sprintf("(%d)", len(views))))

	for _, v := range views {
		author := "unknown author"
		if v.AuthorUsername != "" {
			author = "@" + v.AuthorUsername
		}
		header := r.st.author.Render(author)
		if v.AuthorName != "" {
			header += " " + r.st.muted.Render(v.AuthorName)
		}
		r.printf("%s\n", header)

		if v.Text != "" {
			r.printf("  %s\n", truncate(oneLine(v.Text), r.width-2))
		}

		var meta []string
		if v.FirstSeen != "" {
			meta = append(meta, "bookmarked "+v.FirstSeen)
		}
		if r.verbose {
			if v.CreatedAt != "" {
				meta = append(meta, "posted "+v.CreatedAt)
			}
			if m := v.Metrics; m != nil {
				meta = append(meta, fmt.Sprintf("♥ %d  ↻ %d  ↩ %d  ❝ %d  👁 %d", m.Likes, m.Retweets, m.Replies, m.Quotes, m.Impressions))
			}
		}
		if len(meta) > 0 {
			r.printf("  %s\n", r.st.muted.Render(strings.Join(meta, " · ")))
		}
		r.printf("  %s\n\n", r.st.muted.Render(v.URL))
	}
}

func (r *Renderer) plainBookmarks(views []bookmarkView) {
	cols := []string{"id", "first_seen_date", "author_username", "text"}
	if r.verbose {
		cols = append(cols, "author_name", "created_at", "likes", "retweets", "replies", "quotes", "impressions", "url")
	}
	r.printf("%s\n", strings.Join(cols, "\t"))

	for _, v := range views {
		row := []string{v.ID, v.FirstSeen, v.AuthorUsername, oneLine(v.Text)}
		if r.verbose {
			var m models.Metrics
			if v.Metrics != nil {
				m = *v.Metrics
			}
			row = append(row, v.AuthorName, v.CreatedAt,
				strconv.Itoa(m.Likes), strconv.Itoa(m.Retweets), strconv.Itoa(m.Replies),
				strconv.Itoa(m.Quotes), strconv.Itoa(m.Impressions), v.URL)
		}
		r.printf("%s\n", strings.Join(row, "\t"))
	}
}

func (r *Renderer) markdownBookmarks(title string, views []bookmarkView) {
	if title != "" {
		r.printf("## %s\n\n", title)
	}
	if len(views) == 0 {
		r.printf("_No bookmarks found._\n")
		return
	}

	for _, v := range views {
		author := "unknown"
		if v.AuthorUsername != "" {
			author = "@" + v.AuthorUsername
		}
		line := fmt.Sprintf("- **%s**", author)
		if v.FirstSeen != "" {
			line += fmt.Sprintf(" _(%s)_", v.FirstSeen)
		}
		if v.Text != "" {
			line += ": " + escapeMarkdown(oneLine(v.Text))
		}
		line += fmt.Sprintf(" [link](%s)", v.URL)
		r.printf("%s\n", line)

		if r.verbose && v.Metrics != nil {
			m := v.Metrics
			r.printf("  - %d likes, %d retweets, %d replies, %d quotes, %d impressions\n",
				m.Likes, m.Retweets, m.Replies, m.Quotes, m.Impressions)
		}
	}
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
