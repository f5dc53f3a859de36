package settings

import "context"

// Repository is a small key/value store.
type Repository interface {
	// Settings returns the stored values for keys; absent keys are omitted.
	Settings(ctx context.Context, keys ...string) (map[string]string, error)
	// SetSetting inserts or replaces one value.
	SetSetting(ctx context.Context, key, value string) error
}
