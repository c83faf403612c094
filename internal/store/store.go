package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Kind names a record collection.
type Kind string

const (
	KindUsers    Kind = "users"
	KindGames    Kind = "games"
	KindRankings Kind = "rankings"
)

var ErrNotFound = errors.New("record not found")

// Store is the record store contract: a key-value mapping from id to a
// JSON-serializable record, loaded at startup and persisted best-effort on
// write. Implementations decide durability; callers must not rely on Set
// having hit disk when it returns.
type Store interface {
	Get(ctx context.Context, kind Kind, id string) (json.RawMessage, error)
	Set(ctx context.Context, kind Kind, id string, record any) error
	Delete(ctx context.Context, kind Kind, id string) error
	All(ctx context.Context, kind Kind) (map[string]json.RawMessage, error)
	Close()
}
