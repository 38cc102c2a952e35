// Package cart keeps the shopping cart of the current identity. Carts of
// all identities of a profile live in one registry, and every mutation
// rewrites the whole registry.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/identity"
	"github.com/junaidrashid-git/webshop/models"
	"github.com/junaidrashid-git/webshop/storage"
)

// ValidationError rejects an item before anything is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Store is the in-memory cart of one identity backed by the durable bucket.
type Store struct {
	durable  storage.Bucket
	resolver identity.Resolver
	log      *zap.Logger

	key   string
	items models.Cart
}

// NewStore returns an empty store. Call Load before use.
func NewStore(durable storage.Bucket, resolver identity.Resolver, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		durable:  durable,
		resolver: resolver,
		log:      log,
		items:    models.Cart{},
	}
}

// Key is the identity key the cart was loaded for.
func (s *Store) Key() string { return s.key }

// Load migrates a legacy cart if one exists, then replaces the in-memory
// cart with the registry entry of the current identity.
func (s *Store) Load(ctx context.Context) error {
	key := s.resolver.IdentityKey()
	if _, err := s.migrateLegacy(ctx, key); err != nil {
		return err
	}

	registry, err := s.readRegistry(ctx)
	if err != nil {
		return err
	}
	s.key = key
	s.items = registry[key].Clone()
	return nil
}

// MigrateLegacy moves the pre-partitioning global cart into the current
// identity's partition. It reports whether anything was copied.
func (s *Store) MigrateLegacy(ctx context.Context) (bool, error) {
	return s.migrateLegacy(ctx, s.resolver.IdentityKey())
}

func (s *Store) migrateLegacy(ctx context.Context, key string) (bool, error) {
	var legacy models.Cart
	found, err := s.durable.Get(ctx, storage.KeyLegacyCart, &legacy)
	if errors.Is(err, storage.ErrCorrupt) {
		s.log.Warn("dropping unreadable legacy cart", zap.String("scope", s.durable.Scope()), zap.Error(err))
		return false, s.durable.Remove(ctx, storage.KeyLegacyCart)
	}
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if len(legacy) == 0 {
		return false, s.durable.Remove(ctx, storage.KeyLegacyCart)
	}

	registry, err := s.readRegistry(ctx)
	if err != nil {
		return false, err
	}
	copied := false
	if _, exists := registry[key]; !exists {
		registry[key] = legacy
		if err := s.durable.Set(ctx, storage.KeyUserCarts, registry); err != nil {
			return false, err
		}
		copied = true
	}
	if err := s.durable.Remove(ctx, storage.KeyLegacyCart); err != nil {
		return copied, err
	}
	s.log.Info("migrated legacy cart",
		zap.String("scope", s.durable.Scope()),
		zap.String("identity", key),
		zap.Bool("copied", copied),
		zap.Int("items", len(legacy)),
	)
	return copied, nil
}

// AddItem inserts name with quantity 1, or increments its quantity. The
// price of an existing entry is kept.
func (s *Store) AddItem(ctx context.Context, name string, price float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "Product name is required"}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return &ValidationError{Field: "price", Message: "Price must be a non-negative number"}
	}

	entry, ok := s.items[name]
	if ok {
		entry.Quantity++
	} else {
		entry = models.CartEntry{Quantity: 1, Price: price}
	}
	s.items[name] = entry
	return s.save(ctx)
}

// RemoveItem deletes name. A missing name leaves the cart as it is.
func (s *Store) RemoveItem(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if _, ok := s.items[name]; !ok {
		return nil
	}
	delete(s.items, name)
	return s.save(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.items = models.Cart{}
	return s.save(ctx)
}

// Items returns a copy of the cart.
func (s *Store) Items() models.Cart { return s.items.Clone() }

// TotalCount sums all quantities.
func (s *Store) TotalCount() int { return s.items.TotalCount() }

// TotalPrice sums quantity × price, unrounded.
func (s *Store) TotalPrice() float64 { return s.items.TotalPrice() }

func (s *Store) save(ctx context.Context) error {
	registry, err := s.readRegistry(ctx)
	if err != nil {
		return err
	}
	registry[s.key] = s.items.Clone()
	if err := s.durable.Set(ctx, storage.KeyUserCarts, registry); err != nil {
		return fmt.Errorf("save cart registry: %w", err)
	}
	return nil
}

// readRegistry returns the stored registry, or an empty one when it is
// missing or unreadable.
func (s *Store) readRegistry(ctx context.Context) (models.CartRegistry, error) {
	registry := models.CartRegistry{}
	_, err := s.durable.Get(ctx, storage.KeyUserCarts, &registry)
	if errors.Is(err, storage.ErrCorrupt) {
		s.log.Warn("cart registry unreadable, starting empty", zap.String("scope", s.durable.Scope()), zap.Error(err))
		return models.CartRegistry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart registry: %w", err)
	}
	if registry == nil {
		registry = models.CartRegistry{}
	}
	return registry, nil
}
