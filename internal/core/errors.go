package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// integrityViolationClass is the SQLSTATE class for constraint violations
// (not-null, foreign key, unique, check).
const integrityViolationClass = "23"

// EntityError names the table and stage at which a load run failed.
type EntityError struct {
	Table string
	State LoadState // Stage the entity was in when it failed
	Err   error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Table, e.State, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// ClassifyStoreError wraps a database error in the matching sentinel:
// integrity violations become tseload.ErrConstraint, everything else
// tseload.ErrInsertion. Errors already classified are returned unchanged,
// and so is a cancelled context, which is an interruption and not a store
// failure.
func ClassifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) || errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityViolationClass) {
		return fmt.Errorf("%w: %w", tseload.ErrConstraint, err)
	}
	return fmt.Errorf("%w: %w", tseload.ErrInsertion, err)
}

// IsClassified reports whether err already wraps one of the taxonomy sentinels.
func IsClassified(err error) bool {
	for _, sentinel := range []error{
		tseload.ErrConfig, tseload.ErrIO, tseload.ErrParse,
		tseload.ErrFormat, tseload.ErrConstraint, tseload.ErrInsertion,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
