package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/xbm/internal/client/models"
)

// DefaultBaseURL is the X API v2 root.
const DefaultBaseURL = "https://api.x.com/2"

const (
	maxPageSize   = 100
	maxSnippetLen = 280
	maxErrorBody  = 64 << 10
)

var listParams = url.Values{
	"tweet.fields": {"created_at,public_metrics,author_id,note_tweet"},
	"expansions":   {"author_id"},
	"user.fields":  {"name,username"},
}

// HTTPClient talks to the X API v2 over hc. Authorization is the job of hc's
// transport (see session.Transport).
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu     sync.Mutex
	userID string
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

type apiTweet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics *struct {
		LikeCount       int `json:"like_count"`
		RetweetCount    int `json:"retweet_count"`
		ReplyCount      int `json:"reply_count"`
		QuoteCount      int `json:"quote_count"`
		BookmarkCount   int `json:"bookmark_count"`
		ImpressionCount int `json:"impression_count"`
	} `json:"public_metrics"`
	NoteTweet *struct {
		Text string `json:"text"`
	} `json:"note_tweet"`
}

type bookmarksResponse struct {
	Data     []apiTweet `json:"data"`
	Includes struct {
		Users []User `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type apiErrorBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{ResetAt: parseReset(resp.Header.Get("x-rate-limit-reset"))}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var eb apiErrorBody
	msg := ""
	if json.Unmarshal(raw, &eb) == nil {
		var parts []string
		for _, e := range eb.Errors {
			if d := firstNonEmpty(e.Detail, e.Message); d != "" {
				parts = append(parts, sanitize(d))
			}
		}
		if len(parts) == 0 {
			if d := firstNonEmpty(eb.Detail, eb.Title); d != "" {
				parts = append(parts, sanitize(d))
			}
		}
		msg = strings.Join(parts, "; ")
	}
	if msg == "" {
		msg = "request failed; check your credentials and try again"
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}

func parseReset(v string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Me returns the authenticated user. The id is cached for later calls.
func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var resp struct {
		Data User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" {
		return nil, fmt.Errorf("/users/me returned no user id")
	}

	c.mu.Lock()
	c.userID = resp.Data.ID
	c.mu.Unlock()

	return &resp.Data, nil
}

func (c *HTTPClient) currentUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.userID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}

	u, err := c.Me(ctx)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// ListBookmarks fetches one page of bookmarks. maxResults is clamped to 1..100.
func (c *HTTPClient) ListBookmarks(ctx context.Context, maxResults int, cursor string) (*models.Page, error) {
	uid, err := c.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, v := range listParams {
		q[k] = v
	}
	q.Set("max_results", strconv.Itoa(clamp(maxResults, 1, maxPageSize)))
	if cursor != "" {
		q.Set("pagination_token", cursor)
	}

	var resp bookmarksResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(uid)+"/bookmarks", q, nil, &resp); err != nil {
		return nil, err
	}

	return toPage(&resp), nil
}

func toPage(resp *bookmarksResponse) *models.Page {
	users := make(map[string]User, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}

	page := &models.Page{
		Items:      make([]models.RemoteBookmark, 0, len(resp.Data)),
		NextCursor: resp.Meta.NextToken,
	}
	for _, t := range resp.Data {
		if t.ID == "" {
			continue
		}
		page.Items = append(page.Items, models.RemoteBookmark{ID: t.ID, Cached: cachedFields(t, users)})
	}
	return page
}

func cachedFields(t apiTweet, users map[string]User) *models.CachedFields {
	text := t.Text
	if t.NoteTweet != nil && t.NoteTweet.Text != "" {
		text = t.NoteTweet.Text
	}

	cf := &models.CachedFields{
		AuthorID:  t.AuthorID,
		Text:      snippet(text, maxSnippetLen),
		CreatedAt: t.CreatedAt,
	}
	if u, ok := users[t.AuthorID]; ok {
		cf.AuthorUsername = u.Username
		cf.AuthorName = u.Name
	}
	if m := t.PublicMetrics; m != nil {
		cf.Metrics = &models.Metrics{
			Likes:       m.LikeCount,
			Retweets:    m.RetweetCount,
			Replies:     m.ReplyCount,
			Quotes:      m.QuoteCount,
			Bookmarks:   m.BookmarkCount,
			Impressions: m.ImpressionCount,
		}
	}
	return cf
}

func (c *HTTPClient) AddBookmark(ctx context.Context, tweetID string) error {
	uid, err := c.currentUserID(ctx)
	if err != nil {
		return err
	}
	body := map[string]string{"tweet_id": tweetID}
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(uid)+"/bookmarks", nil, body, nil)
}

func (c *HTTPClient) RemoveBookmark(ctx context.Context, tweetID string) error {
	uid, err := c.currentUserID(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(uid)+"/bookmarks/"+url.PathEscape(tweetID), nil, nil, nil)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
