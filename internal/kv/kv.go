// Package kv provides the string-valued key-value stores the task list
// is persisted into. Every backend exposes the same two operations.
package kv

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid key")

type Store interface {
	// Get returns the value stored under key. The boolean is false
	// and the error nil when nothing has been stored yet.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
