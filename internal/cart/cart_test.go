package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"dinehub/internal/models"
)

func arancini() models.LineItem {
	return models.LineItem{
		ItemID:         1,
		Name:           "Truffle Arancini",
		UnitPrice:      decimal.RequireFromString("14.99"),
		Customizations: []string{"Extra truffle oil"},
	}
}

func salmon() models.LineItem {
	return models.LineItem{
		ItemID:    4,
		Name:      "Grilled Salmon",
		UnitPrice: decimal.RequireFromString("28.99"),
	}
}

func TestStore_AddOrIncrement(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Store)
		wantIDs []int
		wantQty map[int]int
	}{
		{
			name: "insert new item",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), 2)
			},
			wantIDs: []int{1},
			wantQty: map[int]int{1: 2},
		},
		{
			name: "increment existing item",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), 1)
				s.AddOrIncrement(arancini(), 2)
			},
			wantIDs: []int{1},
			wantQty: map[int]int{1: 3},
		},
		{
			name: "decrement to zero evicts",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), 2)
				s.AddOrIncrement(arancini(), -2)
			},
			wantIDs: []int{},
			wantQty: map[int]int{},
		},
		{
			name: "negative delta clamps below zero",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), 1)
				s.AddOrIncrement(arancini(), -5)
			},
			wantIDs: []int{},
			wantQty: map[int]int{},
		},
		{
			name: "negative delta on absent item is a no-op",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), -1)
			},
			wantIDs: []int{},
			wantQty: map[int]int{},
		},
		{
			name: "insertion order preserved",
			mutate: func(s *Store) {
				s.AddOrIncrement(arancini(), 1)
				s.AddOrIncrement(salmon(), 1)
				s.AddOrIncrement(arancini(), 1)
			},
			wantIDs: []int{1, 4},
			wantQty: map[int]int{1: 2, 4: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			tt.mutate(s)

			snapshot := s.Snapshot()
			if len(snapshot) != len(tt.wantIDs) {
				t.Fatalf("snapshot has %d items, want %d", len(snapshot), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				got := snapshot[i]
				if got.ItemID != want {
					t.Errorf("snapshot[%d].ItemID = %d, want %d", i, got.ItemID, want)
				}
				if got.Quantity != tt.wantQty[want] {
					t.Errorf("item %d quantity = %d, want %d", want, got.Quantity, tt.wantQty[want])
				}
				if got.Quantity == 0 {
					t.Errorf("item %d stored with quantity 0", want)
				}
			}
		})
	}
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s := NewStore()
	s.AddOrIncrement(arancini(), 2)

	s.Remove(1)
	s.Remove(1) // absent: no-op
	s.Remove(99)

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d items", s.Len())
	}
}

func TestStore_AddRemoveIdempotentAtZero(t *testing.T) {
	s := NewStore()
	s.AddOrIncrement(arancini(), 2)

	s.AddOrIncrement(arancini(), -2)
	s.AddOrIncrement(arancini(), -2) // already gone: stays gone

	for _, line := range s.Snapshot() {
		if line.ItemID == 1 {
			t.Fatalf("removed item still present in snapshot")
		}
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := NewStore()
	s.AddOrIncrement(arancini(), 2)

	snapshot := s.Snapshot()
	s.AddOrIncrement(arancini(), 5)
	snapshot[0].Customizations = append(snapshot[0].Customizations, "mutated")

	if snapshot[0].Quantity != 2 {
		t.Errorf("snapshot changed after store mutation: quantity %d", snapshot[0].Quantity)
	}
	fresh := s.Snapshot()
	if len(fresh[0].Customizations) != 1 {
		t.Errorf("mutating a snapshot leaked into the store: %v", fresh[0].Customizations)
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.AddOrIncrement(arancini(), 2)
	s.AddOrIncrement(salmon(), 1)

	s.Clear()

	if s.Len() != 0 {
		t.Fatalf("expected empty store after Clear, got %d items", s.Len())
	}
	s.AddOrIncrement(salmon(), 1)
	if got := s.Snapshot(); len(got) != 1 || got[0].ItemID != 4 {
		t.Fatalf("store unusable after Clear: %v", got)
	}
}

func TestSession_SubmitGuard(t *testing.T) {
	session := NewSession("sess-1")

	if err := session.BeginSubmit(); err != nil {
		t.Fatalf("first BeginSubmit failed: %v", err)
	}
	if err := session.BeginSubmit(); err != ErrSubmissionInFlight {
		t.Fatalf("second BeginSubmit = %v, want ErrSubmissionInFlight", err)
	}

	session.EndSubmit()
	if err := session.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit after EndSubmit failed: %v", err)
	}
}

func TestSessions_GetCreatesOnce(t *testing.T) {
	registry := NewSessions()

	a := registry.Get("sess-1")
	b := registry.Get("sess-1")
	if a != b {
		t.Fatalf("expected the same session instance for one id")
	}

	registry.Drop("sess-1")
	c := registry.Get("sess-1")
	if c == a {
		t.Fatalf("expected a fresh session after Drop")
	}
}
