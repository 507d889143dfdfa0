package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/tseload/internal/source"
)

// Tx is the transaction capability handed to one load step.
// Satisfied by pgx.Tx.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens transactions against the target database.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// FieldType represents the expected data type for a source column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldInt
	FieldFlag
)

// FieldSpec defines validation rules for a single source column.
// Absent cells always pass; NOT NULL is enforced by the store.
type FieldSpec struct {
	Name       string    // Source column name (must match the export header exactly)
	Type       FieldType // Expected data type
	EnumValues []string  // Valid values for FieldEnum type
}

// Column describes one persisted column.
type Column struct {
	Name       string
	SQLType    string // "SERIAL" marks a store-generated key
	NotNull    bool
	PrimaryKey bool
	References string // Referenced table; the target is its primary key
}

// Generated reports whether the store assigns the column's value.
func (c Column) Generated() bool {
	return c.SQLType == "SERIAL"
}

// EnumType is a closed value domain created as a PostgreSQL enum.
type EnumType struct {
	Name   string
	Values []string
}

// Schema is everything CreateSchema needs, in creation order.
type Schema struct {
	Enums  []EnumType
	Tables []TableDefinition
}

// TableInfo contains identifying information about a table.
type TableInfo struct {
	Key      string   // Persisted table name: "municipios"
	Label    string   // Entity name: "Municipality"
	DedupKey []string // Source column(s) identifying one entity; empty keeps every row
}

// BuildFunc maps one normalized record to insert arguments, in the order
// of the table's insert columns.
type BuildFunc func(r *source.Record) ([]any, error)

// TableDefinition contains everything needed to extract and load a table.
type TableDefinition struct {
	Info       TableInfo
	Columns    []Column
	FieldSpecs []FieldSpec
	Build      BuildFunc

	// InsertSQL overrides the generated statement, for tables whose
	// values are resolved inside the store. Its parameters must match
	// what Build returns.
	InsertSQL string
}

// InsertColumns returns the columns the loader supplies values for.
func (t TableDefinition) InsertColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated() {
			cols = append(cols, c)
		}
	}
	return cols
}

// References returns the distinct tables this table points at.
func (t TableDefinition) References() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if c.References != "" && !seen[c.References] {
			seen[c.References] = true
			refs = append(refs, c.References)
		}
	}
	return refs
}

// PrimaryKey returns the table's key column, if any.
func (t TableDefinition) PrimaryKey() (Column, bool) {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return Column{}, false
}

// LoadState is the per-entity position in the load state machine.
type LoadState string

const (
	StatePending    LoadState = "pending"
	StateExtracting LoadState = "extracting"
	StateInserting  LoadState = "inserting"
	StateCommitted  LoadState = "committed"
	StateRolledBack LoadState = "rolled_back"
	StateAborted    LoadState = "aborted"
)

// Progress represents the current state of one entity's load.
type Progress struct {
	Table string
	State LoadState
	Done  int
	Total int
}

// Percent returns the progress as a percentage (0-100).
func (p Progress) Percent() int {
	if p.Total > 0 {
		return (p.Done * 100) / p.Total
	}
	return 0
}

// ProgressCallback is called on every state change and after each sent batch.
type ProgressCallback func(Progress)

// EntityResult contains the final result of one entity's load.
type EntityResult struct {
	Table     string
	State     LoadState
	Extracted int // Rows produced by the extractor
	Skipped   int // Source rows dropped by dedup
	Inserted  int
	Duration  time.Duration
	Err       error
}

// RunResult contains the outcome of a full load run.
type RunResult struct {
	RunID    string
	Entities []EntityResult
	Duration time.Duration
	Err      error
}

// Committed returns the tables that were committed, in load order.
func (r *RunResult) Committed() []string {
	var out []string
	for _, e := range r.Entities {
		if e.State == StateCommitted {
			out = append(out, e.Table)
		}
	}
	return out
}

// Failed returns the entity that aborted the run, or nil.
func (r *RunResult) Failed() *EntityResult {
	for i := range r.Entities {
		if r.Entities[i].State == StateAborted {
			return &r.Entities[i]
		}
	}
	return nil
}

// TotalInserted sums inserted rows over all entities.
func (r *RunResult) TotalInserted() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Inserted
	}
	return n
}
