package ledger

import (
	"bytes"
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

type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Load(ctx context.Context) (*models.Ledger, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrCorruptLedger, r.path)
	}

	l := models.NewLedger()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrCorruptLedger, r.path, err)
	}
	if l.Entries == nil {
		l.Entries = make(map[string]models.BookmarkEntry)
	}

	for id, e := range l.Entries {
		if e.ID == "" {
			e.ID = id
			l.Entries[id] = e
		}
		if e.ID != id {
			return nil, fmt.Errorf("%w: entry key %q holds id %q", common.ErrCorruptLedger, id, e.ID)
		}
		if e.FirstSeen.IsZero() {
			return nil, fmt.Errorf("%w: entry %q has no first_seen_date", common.ErrCorruptLedger, id)
		}
	}

	return l, nil
}

func (r *FileRepository) Save(ctx context.Context, l *models.Ledger) error {
	if l.Entries == nil {
		l.Entries = make(map[string]models.BookmarkEntry)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	data = append(data, '\n')

	if err := filex.WriteFileAtomic(r.path, data, filex.PrivateFilePerm); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}
