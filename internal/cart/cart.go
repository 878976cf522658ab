// Package cart implements the session-scoped cart store. A store is owned by
// exactly one user session and mutated only by that session's interaction
// handlers; the mutex guards against the HTTP server reusing goroutines, not
// against multi-user sharing.
package cart

import (
	"sync"

	"dinehub/internal/models"
)

// Store keeps the current line items for one session, preserving the order
// items were first added in. An item whose quantity reaches 0 is evicted;
// no stored line item ever has quantity 0.
type Store struct {
	mu    sync.Mutex
	items map[int]*models.LineItem
	order []int
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		items: make(map[int]*models.LineItem),
	}
}

// AddOrIncrement adds delta to the quantity of item. If the item is absent and
// delta is positive, it is inserted with quantity delta. Quantities clamp at 0
// and a clamped item is removed. All inputs are accepted; negative deltas are
// clamped, not rejected.
func (s *Store) AddOrIncrement(item models.LineItem, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ItemID]
	if !ok {
		if delta <= 0 {
			return
		}
		line := item
		line.Quantity = delta
		line.Customizations = append([]string(nil), item.Customizations...)
		s.items[item.ItemID] = &line
		s.order = append(s.order, item.ItemID)
		return
	}

	quantity := existing.Quantity + delta
	if quantity <= 0 {
		s.evict(item.ItemID)
		return
	}
	existing.Quantity = quantity
}

// Remove deletes the item if present; otherwise it is a no-op.
func (s *Store) Remove(itemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; ok {
		s.evict(itemID)
	}
}

// Snapshot returns a point-in-time copy of the cart contents in insertion
// order. The copy is independent of the store; later mutations do not affect
// a snapshot already taken.
func (s *Store) Snapshot() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.LineItem, 0, len(s.order))
	for _, id := range s.order {
		line := *s.items[id]
		line.Customizations = append([]string(nil), line.Customizations...)
		snapshot = append(snapshot, line)
	}
	return snapshot
}

// Clear empties the store. Called after a successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int]*models.LineItem)
	s.order = nil
}

// Len returns the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// evict removes an item; callers hold the lock.
func (s *Store) evict(itemID int) {
	delete(s.items, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
