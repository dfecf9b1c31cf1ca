// Package cards persists the wallet's card list.
//
// The list is stored as one JSON array in the chaincode_wallet collection and
// is always rewritten whole. Ordering is insertion order; callers address
// cards by their index in List.
//
// Typical Usage
//
//	repo := cards.NewCollectionRepository(store)
//	list, _ := repo.List(ctx)
//	_ = repo.Update(ctx, func(cs []models.Card) ([]models.Card, error) {
//	    return append(cs, card), nil
//	})
package cards
