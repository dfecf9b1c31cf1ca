package keychain

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

func (r *CollectionRepository) Get(ctx context.Context) (models.Keychain, error) {
	kc, err := storage.LoadJSON[models.Keychain](ctx, r.store, common.KeychainCollection)
	if err != nil {
		return nil, err
	}
	if kc == nil {
		kc = models.Keychain{}
	}
	return kc, nil
}

func (r *CollectionRepository) Update(ctx context.Context, fn func(models.Keychain) (models.Keychain, error)) error {
	return storage.UpdateJSON(ctx, r.store, common.KeychainCollection, func(kc models.Keychain) (models.Keychain, error) {
		if kc == nil {
			kc = models.Keychain{}
		}
		next, err := fn(kc)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = models.Keychain{}
		}
		return next, nil
	})
}

func (r *CollectionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, common.KeychainCollection)
}
