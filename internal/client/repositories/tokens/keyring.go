package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/common"
)

// KeyringRepository stores the token record in the system keyring:
// Keychain on macOS, Credential Manager on Windows, Secret Service on Linux.
type KeyringRepository struct {
	service string
	account string
}

func NewKeyringRepository(service, account string) *KeyringRepository {
	return &KeyringRepository{service: service, account: account}
}

func (k *KeyringRepository) Load(ctx context.Context) (*models.TokenRecord, error) {
	secret, err := keyring.Get(k.service, k.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token from keyring: %w", err)
	}

	var rec models.TokenRecord
	if err := json.Unmarshal([]byte(secret), &rec); err != nil || !rec.Complete() {
		return nil, fmt.Errorf("%w: keyring entry %s/%s is unreadable", common.ErrNotLoggedIn, k.service, k.account)
	}
	return &rec, nil
}

// Save overwrites the keyring item in one call, so readers never see a
// partial record.
func (k *KeyringRepository) Save(ctx context.Context, rec *models.TokenRecord) error {
	if err := validate(rec); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}
	if err := keyring.Set(k.service, k.account, string(data)); err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

func (k *KeyringRepository) Delete(ctx context.Context) error {
	err := keyring.Delete(k.service, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
