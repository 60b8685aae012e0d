package ledger

import (
	"context"

	"github.com/dmitrijs2005/xbm/internal/client/models"
)

// Repository loads and stores the whole ledger.
type Repository interface {
	Load(ctx context.Context) (*models.Ledger, error)
	Save(ctx context.Context, l *models.Ledger) error
}
