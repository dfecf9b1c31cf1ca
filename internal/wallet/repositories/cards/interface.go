package cards

import (
	"context"

	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

// Repository reads and rewrites the whole card list.
type Repository interface {
	// List returns all cards in insertion order.
	List(ctx context.Context) ([]models.Card, error)

	// Update applies fn to the current list and persists the result.
	// fn may return storage.ErrNoChange to skip the write.
	Update(ctx context.Context, fn func([]models.Card) ([]models.Card, error)) error

	// Clear removes every card.
	Clear(ctx context.Context) error
}
