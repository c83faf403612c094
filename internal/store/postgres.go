package store

import (
	"context"
	"encoding/json"
	"time"

	"tab_server/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const persistTimeout = 5 * time.Second

// pgOp is one queued write. A nil sql means a flush barrier: the writer
// closes done when every earlier op has been executed.
type pgOp struct {
	sql  string
	args []any
	kind Kind
	id   string
	done chan struct{}
}

// PG keeps every record in a single records table keyed by (kind, id) with a
// jsonb payload. Writes are asynchronous but ordered: a single writer
// goroutine drains the queue, so two writes to the same key are applied in
// the order the callers issued them. The in-memory maps held by the game
// service stay the source of truth during process lifetime, and a crash
// between mutation and persist can lose the tail of the queue.
type PG struct {
	db   *pgxpool.Pool
	ops  chan pgOp
	done chan struct{}
}

func NewPostgres(db *pgxpool.Pool) *PG {
	s := &PG{
		db:   db,
		ops:  make(chan pgOp, 256),
		done: make(chan struct{}),
	}
	go s.writer()
	return s
}

func (s *PG) writer() {
	defer close(s.done)
	for op := range s.ops {
		if op.sql == "" {
			close(op.done)
			continue
		}

		wctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		_, err := s.db.Exec(wctx, op.sql, op.args...)
		cancel()
		if err != nil {
			logger.Error("record persist failed", "kind", op.kind, "id", op.id, "error", err)
		}
	}
}

// Migrate creates the records table if it does not exist.
func (s *PG) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			kind       text NOT NULL,
			id         text NOT NULL,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (kind, id)
		)`)
	return err
}

func (s *PG) Get(ctx context.Context, kind Kind, id string) (json.RawMessage, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM records WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set enqueues an upsert. The write is issued, not awaited by the caller;
// failures are logged, not surfaced.
func (s *PG) Set(ctx context.Context, kind Kind, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.ops <- pgOp{
		sql: `INSERT INTO records (kind, id, data, updated_at)
		      VALUES ($1, $2, $3, now())
		      ON CONFLICT (kind, id) DO UPDATE SET data = $3, updated_at = now()`,
		args: []any{string(kind), id, data},
		kind: kind,
		id:   id,
	}
	return nil
}

func (s *PG) Delete(ctx context.Context, kind Kind, id string) error {
	s.ops <- pgOp{
		sql:  `DELETE FROM records WHERE kind = $1 AND id = $2`,
		args: []any{string(kind), id},
		kind: kind,
		id:   id,
	}
	return nil
}

func (s *PG) All(ctx context.Context, kind Kind) (map[string]json.RawMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, data FROM records WHERE kind = $1`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		res[id] = data
	}
	return res, rows.Err()
}

// Flush blocks until every write enqueued before the call has been executed.
func (s *PG) Flush() {
	barrier := make(chan struct{})
	s.ops <- pgOp{done: barrier}
	<-barrier
}

// Close drains the queue and stops the writer. No Set or Delete may be
// issued after Close.
func (s *PG) Close() {
	close(s.ops)
	<-s.done
}
