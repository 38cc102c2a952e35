// Package storage is the key-value adapter behind the storefront state. A
// Bucket reads and writes JSON values under string keys within one scope
// (a browser profile for the durable store, a tab for the volatile one).
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the storefront.
const (
	KeyCurrentUser = "currentUser"
	KeyUserCarts   = "userCarts"
	KeyLegacyCart  = "cart"
)

var (
	// ErrNotFound is returned by a Backend for a missing key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrCorrupt marks a stored value that is not valid JSON for its target.
	ErrCorrupt = errors.New("storage: corrupt value")
)

// Backend persists raw values.
type Backend interface {
	Load(ctx context.Context, scope, key string) ([]byte, error)
	Save(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
}

// Bucket is a Backend bound to one scope.
type Bucket struct {
	backend Backend
	scope   string
}

// NewBucket binds backend to scope.
func NewBucket(backend Backend, scope string) Bucket {
	return Bucket{backend: backend, scope: scope}
}

// Scope returns the scope the bucket is bound to.
func (b Bucket) Scope() string { return b.scope }

// Get decodes the value stored under key into dst. A missing key reports
// found=false and leaves dst untouched.
func (b Bucket) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := b.backend.Load(ctx, b.scope, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// GetRaw returns the stored bytes as-is.
func (b Bucket) GetRaw(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := b.backend.Load(ctx, b.scope, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return raw, true, nil
}

// Set stores value under key as JSON.
func (b Bucket) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.SetRaw(ctx, key, raw)
}

// SetRaw stores already-encoded JSON under key.
func (b Bucket) SetRaw(ctx context.Context, key string, raw []byte) error {
	if err := b.backend.Save(ctx, b.scope, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (b Bucket) Remove(ctx context.Context, key string) error {
	if err := b.backend.Delete(ctx, b.scope, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
