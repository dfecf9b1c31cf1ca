// Package storage is the persistence collaborator of the wallet: a named
// collection of bytes that is always read and written whole.
//
// # Implementations
//
//   - MemoryStore: process-local map, used by tests and dry runs.
//   - SQLStore: one row per collection in a `collections` table, with
//     SQLite and PostgreSQL dialects.
//
// Repositories in internal/wallet/repositories layer JSON encoding on top
// (see LoadJSON and UpdateJSON).
package storage

import (
	"context"
	"errors"
)

// ErrUnknownDriver is returned by Open for unsupported driver names.
var ErrUnknownDriver = errors.New("unknown database driver")

// Store persists whole collections by name.
type Store interface {
	// Load returns the stored bytes, or (nil, nil) when the collection does
	// not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the collection.
	Save(ctx context.Context, name string, data []byte) error

	// Delete removes the collection. Deleting a missing collection is not
	// an error.
	Delete(ctx context.Context, name string) error

	// Update runs fn on the current bytes (nil when absent) and stores the
	// result atomically with respect to other Update calls. Returning
	// ErrNoChange from fn skips the write.
	Update(ctx context.Context, name string, fn func(current []byte) ([]byte, error)) error
}

// ErrNoChange lets an Update callback leave the collection untouched.
var ErrNoChange = errors.New("no change")
