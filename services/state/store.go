package state

import (
	"context"
	"errors"
)

var (
	ErrClientRequired = errors.New("client id is required")
	ErrStoreClosed    = errors.New("state store is closed")
)

// Store is a string key-value area partitioned by namespace. Each browser
// client gets its own namespace.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}
