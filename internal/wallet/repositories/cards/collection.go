package cards

import (
	"context"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/storage"
)

// CollectionRepository implements Repository over a storage.Store.
type CollectionRepository struct {
	store storage.Store
}

func NewCollectionRepository(store storage.Store) *CollectionRepository {
	return &CollectionRepository{store: store}
}

func (r *CollectionRepository) List(ctx context.Context) ([]models.Card, error) {
	list, err := storage.LoadJSON[[]models.Card](ctx, r.store, common.WalletCollection)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Card{}
	}
	return list, nil
}

func (r *CollectionRepository) Update(ctx context.Context, fn func([]models.Card) ([]models.Card, error)) error {
	return storage.UpdateJSON(ctx, r.store, common.WalletCollection, func(list []models.Card) ([]models.Card, error) {
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []models.Card{}
		}
		return next, nil
	})
}

func (r *CollectionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, common.WalletCollection)
}
