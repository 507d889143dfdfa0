package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tseload/internal/logging"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// Statements returns the DDL creating every enum type and table of s, in
// order. Every statement is a no-op when its object already exists.
func (s Schema) Statements() ([]string, error) {
	stmts := make([]string, 0, len(s.Enums)+len(s.Tables))

	for _, e := range s.Enums {
		stmts = append(stmts, createEnumStatement(e))
	}

	keys := make(map[string]string, len(s.Tables))
	for _, def := range s.Tables {
		pk, ok := def.PrimaryKey()
		if !ok {
			return nil, fmt.Errorf("table %s has no primary key", def.Info.Key)
		}
		keys[def.Info.Key] = pk.Name
	}

	for _, def := range s.Tables {
		stmt, err := createTableStatement(def, keys)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

// CreateSchema creates the enum types and tables of s in one transaction.
// Running it against an existing schema changes nothing.
func CreateSchema(ctx context.Context, store Store, s Schema) error {
	stmts, err := s.Statements()
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)

	tx, err := store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", tseload.ErrIO, err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			logger.Error("create schema failed", "statement", firstLine(stmt), "error", err)
			return fmt.Errorf("create schema: %w", ClassifyStoreError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create schema: commit: %w", ClassifyStoreError(err))
	}

	logger.Info("schema ready", "enums", len(s.Enums), "tables", len(s.Tables))
	return nil
}

// createEnumStatement guards CREATE TYPE with duplicate_object, since
// PostgreSQL has no CREATE TYPE IF NOT EXISTS.
func createEnumStatement(e EnumType) string {
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = quoteLiteral(v)
	}

	return fmt.Sprintf(`DO $$
BEGIN
	CREATE TYPE %s AS ENUM (%s);
EXCEPTION
	WHEN duplicate_object THEN NULL;
END
$$`, e.Name, strings.Join(values, ", "))
}

func createTableStatement(def TableDefinition, keys map[string]string) (string, error) {
	lines := make([]string, len(def.Columns))

	for i, c := range def.Columns {
		var b strings.Builder
		b.WriteString("\t")
		b.WriteString(c.Name)
		b.WriteString(" ")
		b.WriteString(c.SQLType)

		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		} else if c.NotNull {
			b.WriteString(" NOT NULL")
		}

		if c.References != "" {
			refKey, ok := keys[c.References]
			if !ok {
				return "", fmt.Errorf("table %s: column %s references unknown table %s",
					def.Info.Key, c.Name, c.References)
			}
			fmt.Fprintf(&b, " REFERENCES %s(%s)", c.References, refKey)
		}

		lines[i] = b.String()
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		def.Info.Key, strings.Join(lines, ",\n")), nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
