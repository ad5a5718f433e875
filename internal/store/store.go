// Package store persists small key-value blobs per page origin.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no entry exists.
var ErrNotFound = errors.New("not found")

// Entry is one stored value.
type Entry struct {
	Origin    string    `json:"origin"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Revision  string    `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KV is the persistence capability used by the assistant.
type KV interface {
	// Get returns the value stored under origin/key or ErrNotFound.
	Get(ctx context.Context, origin, key string) (string, error)

	// Set overwrites the value under origin/key. Last writer wins.
	Set(ctx context.Context, origin, key, value string) error

	// Delete removes origin/key. Deleting a missing key is not an error.
	Delete(ctx context.Context, origin, key string) error
}
