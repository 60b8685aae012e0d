package tokens

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/common"
)

// Repository reads and writes the single token record.
type Repository interface {
	// Load returns (nil, nil) when no record is stored.
	Load(ctx context.Context) (*models.TokenRecord, error)

	// Save replaces the stored record atomically. Incomplete records are rejected.
	Save(ctx context.Context, rec *models.TokenRecord) error

	// Delete removes the record; deleting a missing record is not an error.
	Delete(ctx context.Context) error
}

// Backend names accepted by New.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// New returns the repository for backend, rooted at configDir for the file
// backend.
func New(backend, configDir string) (Repository, error) {
	switch backend {
	case BackendFile, "":
		return NewFileRepository(filepath.Join(configDir, common.TokenFileName)), nil
	case BackendKeyring:
		return NewKeyringRepository(common.AppName, "oauth2_tokens"), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", backend)
	}
}

func validate(rec *models.TokenRecord) error {
	if !rec.Complete() {
		return fmt.Errorf("refusing to store incomplete token record")
	}
	return nil
}
