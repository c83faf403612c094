package store

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type rec struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	if err := m.Set(ctx, KindUsers, "alice", rec{Name: "alice", N: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := m.Get(ctx, KindUsers, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got rec
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "alice" || got.N != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, KindGames, "missing"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// kinds are isolated
	if err := m.Set(ctx, KindUsers, "x", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := m.Get(ctx, KindGames, "x"); err != ErrNotFound {
		t.Fatalf("cross-kind get: got %v, want ErrNotFound", err)
	}
}

func TestMemoryDeleteAndAll(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, KindGames, "g1", map[string]int{"a": 1})
	_ = m.Set(ctx, KindGames, "g2", map[string]int{"b": 2})

	all, err := m.All(ctx, KindGames)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all returned %d records, want 2", len(all))
	}

	if err := m.Delete(ctx, KindGames, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, KindGames, "g1"); err != ErrNotFound {
		t.Fatalf("deleted record still present: %v", err)
	}
}
