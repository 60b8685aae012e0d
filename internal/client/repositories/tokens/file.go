package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/filex"
)

// FileRepository keeps the token record in a JSON file with owner-only
// permissions.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the token file location.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Load(ctx context.Context) (*models.TokenRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var rec models.TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil || !rec.Complete() {
		// An unreadable record is as good as none; a fresh login overwrites it.
		return nil, fmt.Errorf("%w: token file %s is unreadable", common.ErrNotLoggedIn, r.path)
	}
	return &rec, nil
}

func (r *FileRepository) Save(ctx context.Context, rec *models.TokenRecord) error {
	if err := validate(rec); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := filex.WriteFileAtomic(r.path, data, filex.PrivateFilePerm); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context) error {
	return filex.RemoveIfExists(r.path)
}
