package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/chaincode/internal/common"
)

// LoadJSON decodes the named collection into a T. A missing collection
// yields the zero value of T.
func LoadJSON[T any](ctx context.Context, s Store, name string) (T, error) {
	var v T
	data, err := s.Load(ctx, name)
	if err != nil {
		return v, err
	}
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: collection %s: %v", common.ErrFormat, name, err)
	}
	return v, nil
}

// SaveJSON encodes v and replaces the named collection.
func SaveJSON[T any](ctx context.Context, s Store, name string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	return s.Save(ctx, name, data)
}

// UpdateJSON decodes the collection, applies fn and writes the result back
// through Store.Update. fn may return ErrNoChange to skip the write.
func UpdateJSON[T any](ctx context.Context, s Store, name string, fn func(T) (T, error)) error {
	return s.Update(ctx, name, func(current []byte) ([]byte, error) {
		var v T
		if len(current) > 0 {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, fmt.Errorf("%w: collection %s: %v", common.ErrFormat, name, err)
			}
		}
		next, err := fn(v)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode collection %s: %w", name, err)
		}
		return data, nil
	})
}
