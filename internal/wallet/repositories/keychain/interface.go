// Package keychain persists the id → password map used to unlock private
// cards, stored as one JSON object in the chaincode_keychain collection.
package keychain

import (
	"context"

	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

// Repository reads and rewrites the whole keychain.
type Repository interface {
	Get(ctx context.Context) (models.Keychain, error)
	Update(ctx context.Context, fn func(models.Keychain) (models.Keychain, error)) error
	Clear(ctx context.Context) error
}
