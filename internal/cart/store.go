package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/repository"
)

const storageKey = "cartItems"

// Store holds the shopping cart, mirrored into durable storage as JSON.
// Unparsable persisted data falls back to an empty cart.
type Store struct {
	kv     repository.KeyValue
	logger *logrus.Logger

	mu    sync.Mutex
	items []domain.CartItem
}

func New(kv repository.KeyValue, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Store{kv: kv, logger: logger}
}

// Restore loads the persisted cart. Malformed storage content is discarded
// rather than surfaced as an error.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WithError(err).Warn("discarding malformed persisted cart")
		items = nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add puts one unit of the product into the cart, incrementing the quantity
// when the product is already present.
func (s *Store) Add(ctx context.Context, item domain.CartItem) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Qty++
			found = true
			break
		}
	}
	if !found {
		item.Qty = 1
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.persist(ctx)
}

// Remove drops the product from the cart.
func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.persist(ctx)
}

// SetQty sets the quantity of a cart line, with a floor of one. A missing
// product id is a no-op.
func (s *Store) SetQty(ctx context.Context, productID int64, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Qty = qty
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.persist(ctx)
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist(ctx)
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Total is the cart value: sum of price times quantity.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		total += item.Price * float64(qty)
	}
	return total
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, item := range s.items {
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		count += qty
	}
	return count
}

// persist writes the cart under the lock, so concurrent mutations cannot
// land their storage writes out of order and leave storage behind memory.
func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(s.items)
	if err != nil {
		s.logger.WithError(err).Warn("encode cart")
		return
	}
	if err := s.kv.Set(ctx, storageKey, string(raw)); err != nil {
		s.logger.WithError(err).Warn("persist cart")
	}
}
