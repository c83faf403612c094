package integration

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"tab_server/internal/domain"
	"tab_server/internal/store"
)

// Runs only against a real database: set DATABASE_URL to enable.
func newPGStore(t *testing.T) (*store.PG, context.Context) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	pg := store.NewPostgres(db)
	t.Cleanup(pg.Close)
	if err := pg.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pg, ctx
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	pg, ctx := newPGStore(t)

	u := &domain.User{Nick: "pg-test", PasswordHash: "x", Victories: 2}
	if err := pg.Set(ctx, store.KindUsers, u.Nick, u); err != nil {
		t.Fatalf("set: %v", err)
	}
	// writes are async, drain before reading back
	pg.Flush()

	raw, err := pg.Get(ctx, store.KindUsers, u.Nick)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got domain.User
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Nick != u.Nick || got.Victories != 2 {
		t.Fatalf("got %+v", got)
	}

	all, err := pg.All(ctx, store.KindUsers)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if _, ok := all[u.Nick]; !ok {
		t.Fatalf("record missing from All")
	}

	if err := pg.Delete(ctx, store.KindUsers, u.Nick); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pg.Flush()
	if _, err := pg.Get(ctx, store.KindUsers, u.Nick); err != store.ErrNotFound {
		t.Fatalf("after delete: %v, want ErrNotFound", err)
	}
}

func TestPostgresStoreWriteOrdering(t *testing.T) {
	pg, ctx := newPGStore(t)

	// rapid-fire writes to the same key must land in issue order: the last
	// enqueued version is the one a later read sees
	const nick = "pg-order-test"
	for v := 1; v <= 50; v++ {
		u := &domain.User{Nick: nick, PasswordHash: "x", Victories: v}
		if err := pg.Set(ctx, store.KindUsers, nick, u); err != nil {
			t.Fatalf("set %d: %v", v, err)
		}
	}
	pg.Flush()

	raw, err := pg.Get(ctx, store.KindUsers, nick)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got domain.User
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Victories != 50 {
		t.Fatalf("victories = %d, want the last write (50)", got.Victories)
	}

	// a delete issued after a set must win too
	if err := pg.Set(ctx, store.KindUsers, nick, &domain.User{Nick: nick}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := pg.Delete(ctx, store.KindUsers, nick); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pg.Flush()
	if _, err := pg.Get(ctx, store.KindUsers, nick); err != store.ErrNotFound {
		t.Fatalf("after delete: %v, want ErrNotFound", err)
	}
}
