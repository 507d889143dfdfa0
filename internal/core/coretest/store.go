// Package coretest provides an in-memory core.Store for tests.
//
// The fake records every statement per transaction and only publishes rows
// to Committed when the transaction commits, so tests can assert on what a
// rolled-back entity left behind (nothing) and what earlier entities kept.
package coretest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/tseload/internal/core"
)

// FailFunc decides whether a statement fails. Returning nil lets it succeed.
type FailFunc func(sql string, args []any) error

// FailTable returns a FailFunc failing every insert into table with err.
func FailTable(table string, err error) FailFunc {
	return func(sql string, _ []any) error {
		if TableOf(sql) == table {
			return err
		}
		return nil
	}
}

// Store is a fake core.Store. The zero value is ready to use.
type Store struct {
	BeginErr  error
	CommitErr error
	Fail      FailFunc

	mu        sync.Mutex
	committed map[string][][]any
	execs     []string
	order     []string // tables in commit order
	begins    int
	commits   int
	rollbacks int
}

var _ core.Store = (*Store)(nil)

// Begin opens a fake transaction.
func (s *Store) Begin(ctx context.Context) (core.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.BeginErr != nil {
		return nil, s.BeginErr
	}
	s.begins++
	return &Tx{store: s, rows: make(map[string][][]any)}, nil
}

// Rows returns the committed rows of table.
func (s *Store) Rows(table string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed[table]
}

// Count returns the number of committed rows of table.
func (s *Store) Count(table string) int {
	return len(s.Rows(table))
}

// CommitOrder returns the tables in the order their rows were committed.
func (s *Store) CommitOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Execs returns every statement committed through Exec.
func (s *Store) Execs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.execs...)
}

// Stats returns how many transactions were begun, committed and rolled back.
func (s *Store) Stats() (begins, commits, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins, s.commits, s.rollbacks
}

func (s *Store) check(sql string, args []any) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(sql, args)
}

// Tx is a fake core.Tx.
type Tx struct {
	store  *Store
	rows   map[string][][]any
	tables []string
	execs  []string
	closed bool
}

// Exec records a statement outside of a batch.
func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.closed {
		return pgconn.CommandTag{}, pgx.ErrTxClosed
	}
	if err := t.store.check(sql, args); err != nil {
		return pgconn.CommandTag{}, err
	}
	t.execs = append(t.execs, sql)
	return pgconn.NewCommandTag("OK"), nil
}

// SendBatch returns results that apply the queued statements one Exec at a time.
func (t *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return &batchResults{tx: t, queued: b.QueuedQueries}
}

// Commit publishes the transaction's rows to the store.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		s.rollbacks++
		return s.CommitErr
	}

	if s.committed == nil {
		s.committed = make(map[string][][]any)
	}
	for _, table := range t.tables {
		s.committed[table] = append(s.committed[table], t.rows[table]...)
		s.order = append(s.order, table)
	}
	s.execs = append(s.execs, t.execs...)
	s.commits++
	return nil
}

// Rollback discards the transaction. Rolling back a closed transaction
// returns pgx.ErrTxClosed, like pgx.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true

	t.store.mu.Lock()
	t.store.rollbacks++
	t.store.mu.Unlock()
	return nil
}

func (t *Tx) insert(sql string, args []any) {
	table := TableOf(sql)
	if _, ok := t.rows[table]; !ok {
		t.tables = append(t.tables, table)
	}
	t.rows[table] = append(t.rows[table], args)
}

type batchResults struct {
	tx     *Tx
	queued []*pgx.QueuedQuery
	next   int
	err    error
}

func (br *batchResults) Exec() (pgconn.CommandTag, error) {
	if br.err != nil {
		return pgconn.CommandTag{}, br.err
	}
	if br.next >= len(br.queued) {
		return pgconn.CommandTag{}, errors.New("no more results in batch")
	}

	q := br.queued[br.next]
	br.next++

	if err := br.tx.store.check(q.SQL, q.Arguments); err != nil {
		br.err = err
		return pgconn.CommandTag{}, err
	}
	br.tx.insert(q.SQL, q.Arguments)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (br *batchResults) Query() (pgx.Rows, error) {
	return nil, errors.New("coretest: Query not supported")
}

func (br *batchResults) QueryRow() pgx.Row {
	return errRow{errors.New("coretest: QueryRow not supported")}
}

func (br *batchResults) Close() error {
	return br.err
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// TableOf returns the target table of an INSERT statement, or "".
func TableOf(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) >= 3 && strings.EqualFold(fields[0], "INSERT") && strings.EqualFold(fields[1], "INTO") {
		return strings.TrimSuffix(fields[2], "(")
	}
	return ""
}
