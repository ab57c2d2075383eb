package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has no persisted value.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue defines the durable string storage used by the session and cart
// stores.
type KeyValue interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
