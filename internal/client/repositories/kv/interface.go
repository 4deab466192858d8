// Package kv is the local key/value store: one SQLite table mapping string
// keys to text values. It plays the role of browser local storage for the
// storage gateway.
package kv

import "context"

// Repository reads and writes raw values by key. Get returns ("", false, nil)
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
