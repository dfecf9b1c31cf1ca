// Package links persists references to files the wallet produced, stored as
// one JSON object in the chaincode_links collection.
package links

import (
	"context"

	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

// Repository reads and rewrites the whole link map.
type Repository interface {
	Get(ctx context.Context) (models.Links, error)
	Update(ctx context.Context, fn func(models.Links) (models.Links, error)) error
}
