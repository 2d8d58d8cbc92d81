// Package metadata is a small key/value table in the CLI's local database.
// Values are text; callers encode structured data themselves.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns ("", false, nil) when key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
