package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/tseload/internal/logging"
	"github.com/JonMunkholm/tseload/internal/source"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// DefaultBatchSize is the number of inserts queued per round trip.
const DefaultBatchSize = 1000

// Loader runs the per-entity load state machine against a Store.
//
// Each entity is loaded in its own transaction. A failure rolls back that
// entity only and aborts the run; entities committed earlier stay committed.
type Loader struct {
	store     Store
	batchSize int
	progress  ProgressCallback
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBatchSize sets how many inserts are queued per batch.
func WithBatchSize(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithProgress registers a callback for state changes and sent batches.
func WithProgress(fn ProgressCallback) LoaderOption {
	return func(l *Loader) {
		l.progress = fn
	}
}

// NewLoader creates a Loader writing through store.
func NewLoader(store Store, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:     store,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run loads every table of plan, in order, from the normalized table t.
// It stops at the first failing entity and returns its *EntityError.
// The RunResult is always returned and lists every entity of plan,
// including those never reached.
func (l *Loader) Run(ctx context.Context, plan []TableDefinition, t *source.Table) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{
		RunID:    logging.RunIDFromContext(ctx),
		Entities: make([]EntityResult, len(plan)),
	}
	for i, def := range plan {
		result.Entities[i] = EntityResult{Table: def.Info.Key, State: StatePending}
	}

	logger := logging.FromContext(ctx)
	logger.Info("load started", "tables", len(plan), "rows", t.Len())

	for i, def := range plan {
		res := l.LoadEntity(ctx, def, t)
		result.Entities[i] = res

		if res.Err != nil {
			result.Err = res.Err
			result.Duration = time.Since(start)
			logger.Error("load aborted",
				"table", def.Info.Key,
				"committed", len(result.Committed()),
				"error", res.Err,
			)
			return result, res.Err
		}
	}

	result.Duration = time.Since(start)
	logger.Info("load completed",
		"tables", len(plan),
		"inserted", result.TotalInserted(),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// LoadEntity extracts and loads a single table in its own transaction.
// On failure the returned result is in StateAborted and Err is an
// *EntityError naming the stage that failed.
func (l *Loader) LoadEntity(ctx context.Context, def TableDefinition, t *source.Table) EntityResult {
	start := time.Now()
	res := EntityResult{Table: def.Info.Key, State: StatePending}
	logger := logging.WithFields(ctx, "table", def.Info.Key)

	fail := func(stage LoadState, err error) EntityResult {
		res.State = StateAborted
		res.Err = &EntityError{Table: def.Info.Key, State: stage, Err: err}
		res.Duration = time.Since(start)
		l.notify(Progress{Table: def.Info.Key, State: StateAborted, Done: res.Inserted, Total: res.Extracted})
		return res
	}

	res.State = StateExtracting
	l.notify(Progress{Table: def.Info.Key, State: StateExtracting})

	ext, err := Extract(def, t)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return fail(StateExtracting, err)
	}
	res.Extracted = ext.Len()
	res.Skipped = ext.Skipped
	logger.Debug("extracted", "rows", ext.Len(), "skipped", ext.Skipped)

	res.State = StateInserting
	l.notify(Progress{Table: def.Info.Key, State: StateInserting, Total: ext.Len()})

	inserted, err := l.insert(ctx, def, ext)
	res.Inserted = inserted
	if err != nil {
		res.State = StateRolledBack
		l.notify(Progress{Table: def.Info.Key, State: StateRolledBack, Done: inserted, Total: ext.Len()})
		res.Inserted = 0
		return fail(StateInserting, err)
	}

	res.State = StateCommitted
	res.Duration = time.Since(start)
	l.notify(Progress{Table: def.Info.Key, State: StateCommitted, Done: inserted, Total: ext.Len()})
	logger.Info("committed", "rows", inserted, "duration_ms", res.Duration.Milliseconds())
	return res
}

// insert writes ext inside one transaction. The transaction is rolled back
// on every failure path, which also releases the pooled connection.
func (l *Loader) insert(ctx context.Context, def TableDefinition, ext *Extraction) (n int, err error) {
	logger := logging.WithFields(ctx, "table", def.Info.Key)

	tx, err := l.store.Begin(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, fmt.Errorf("begin transaction: %w", err)
		}
		return 0, fmt.Errorf("%w: begin transaction: %w", tseload.ErrIO, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		logger.Error("rolling back", "stage", StateInserting, "sent", n, "error", err)
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	sql := InsertStatement(def)

	for lo := 0; lo < ext.Len(); lo += l.batchSize {
		hi := min(lo+l.batchSize, ext.Len())

		batch := &pgx.Batch{}
		for _, args := range ext.Rows[lo:hi] {
			batch.Queue(sql, args...)
		}

		if err := sendBatch(ctx, tx, batch); err != nil {
			return n, fmt.Errorf("batch at line %d: %w", ext.Lines[lo], ClassifyStoreError(err))
		}

		n = hi
		l.notify(Progress{Table: def.Info.Key, State: StateInserting, Done: n, Total: ext.Len()})
	}

	if err := tx.Commit(ctx); err != nil {
		return n, fmt.Errorf("commit: %w", ClassifyStoreError(err))
	}
	committed = true

	return n, nil
}

// sendBatch sends b and reads every result so the first failing statement
// surfaces, then closes the batch.
func sendBatch(ctx context.Context, tx Tx, b *pgx.Batch) error {
	br := tx.SendBatch(ctx, b)

	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}

	return br.Close()
}

func (l *Loader) notify(p Progress) {
	if l.progress != nil {
		l.progress(p)
	}
}

// InsertStatement returns def.InsertSQL, or a positional INSERT over the
// table's insert columns.
func InsertStatement(def TableDefinition) string {
	if def.InsertSQL != "" {
		return def.InsertSQL
	}

	cols := def.InsertColumns()
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		def.Info.Key, strings.Join(names, ", "), strings.Join(params, ", "))
}
