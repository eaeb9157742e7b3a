package ports

import (
	"context"

	"github.com/aretw0/morph/pkg/domain"
)

// LayoutStore persists serialized registry entries for the host.
// This allows captured layouts to survive restarts without the core touching disk.
type LayoutStore interface {
	// Save persists the entries under a key, replacing what was there.
	Save(ctx context.Context, key string, entries []domain.Entry) error

	// Load retrieves the entries stored under a key.
	// Returns domain.ErrLayoutNotFound if the key does not exist.
	Load(ctx context.Context, key string) ([]domain.Entry, error)

	// Delete removes the entries for a key.
	Delete(ctx context.Context, key string) error

	// List returns all stored keys.
	List(ctx context.Context) ([]string, error)
}
