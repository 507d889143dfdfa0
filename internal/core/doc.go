// Package core provides the business logic for loading a TSE vote-count export
// into a normalized PostgreSQL schema.
//
// This package has no CLI dependencies. It can be used by the command line
// tool, by tests with a fake [Store], or by any other frontend.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Table Definitions: plain descriptors registered via the registry. Each
//     names its persisted columns, its dedup key over source columns, the
//     field specs its source columns must satisfy, and a build function.
//   - Extraction: [Extract] turns a normalized source table into the ordered,
//     deduplicated insert rows of one table.
//   - Loader: [Loader] runs the per-entity state machine, one transaction per
//     table, in a dependency-respecting order produced by [Plan].
//   - Schema: [CreateSchema] creates enum types and tables idempotently.
//
// # Table Registry
//
// Tables are registered at init time using [Register]:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: "municipios", Label: "Municipality", DedupKey: []string{"CD_MUNICIPIO"}},
//	    Columns: []core.Column{
//	        {Name: "id", SQLType: "INTEGER", PrimaryKey: true},
//	        {Name: "nome", SQLType: "TEXT", NotNull: true},
//	    },
//	    Build: buildMunicipio,
//	})
//
// # Load State Machine
//
// Every entity moves Pending → Extracting → Inserting → Committed. On failure
// it moves to Aborted (through RolledBack when a transaction was open) and
// the run stops. Entities committed earlier are not undone: the run is atomic
// per entity, not as a whole.
//
// # Error Handling
//
// Every failure wraps one sentinel from pkg/tseload. Store errors are
// classified by [ClassifyStoreError]: SQLSTATE class 23 becomes
// ErrConstraint, anything else ErrInsertion. [MapError] turns any error into
// a short coded diagnostic for the final log line.
package core
