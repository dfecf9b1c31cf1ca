package links

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

func (r *CollectionRepository) Get(ctx context.Context) (models.Links, error) {
	l, err := storage.LoadJSON[models.Links](ctx, r.store, common.LinksCollection)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = models.Links{}
	}
	return l, nil
}

func (r *CollectionRepository) Update(ctx context.Context, fn func(models.Links) (models.Links, error)) error {
	return storage.UpdateJSON(ctx, r.store, common.LinksCollection, func(l models.Links) (models.Links, error) {
		if l == nil {
			l = models.Links{}
		}
		return fn(l)
	})
}
