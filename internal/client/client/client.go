package client

import (
	"context"

	"github.com/dmitrijs2005/xbm/internal/client/models"
)

// User is the authenticated account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Client is the X API surface used by the CLI.
type Client interface {
	Me(ctx context.Context) (*User, error)
	ListBookmarks(ctx context.Context, maxResults int, cursor string) (*models.Page, error)
	AddBookmark(ctx context.Context, tweetID string) error
	RemoveBookmark(ctx context.Context, tweetID string) error
}
