package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/tseload/pkg/tseload"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "duplicate key",
			err:      errors.New(`ERROR: duplicate key value violates unique constraint "municipios_pkey"`),
			wantCode: "DB001",
		},
		{
			name:     "foreign key",
			err:      errors.New(`insert or update on table "candidato" violates foreign key constraint`),
			wantCode: "DB002",
		},
		{
			name:     "not null",
			err:      errors.New(`null value in column "nome_urna" of relation "candidato" violates not-null constraint`),
			wantCode: "DB003",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode: "DB005",
		},
		{
			name:     "invalid date",
			err:      fmt.Errorf("eleicao: line 2: %w: invalid date %q", tseload.ErrFormat, "31/31/2022"),
			wantCode: "VAL001",
		},
		{
			name:     "integer overflow",
			err:      fmt.Errorf("%w: invalid 16-bit integer %q", tseload.ErrFormat, "99999"),
			wantCode: "VAL002",
		},
		{
			name:     "invalid enum",
			err:      fmt.Errorf("%w: invalid enum %q", tseload.ErrFormat, "XX"),
			wantCode: "VAL003",
		},
		{
			name:     "missing column",
			err:      fmt.Errorf("%w: missing required column(s): SG_UF", tseload.ErrParse),
			wantCode: "FILE001",
		},
		{
			name:     "missing source file",
			err:      errors.New("open votacao.csv: no such file or directory"),
			wantCode: "FILE004",
		},
		{
			name:     "missing config file wins over missing file",
			err:      fmt.Errorf("%w: config file not found: config.json", tseload.ErrConfig),
			wantCode: "CFG001",
		},
		{
			name:     "interrupted",
			err:      errors.New("context canceled"),
			wantCode: "RUN001",
		},
		{
			name:     "case insensitive",
			err:      errors.New("DEADLOCK detected"),
			wantCode: "DB007",
		},
		{
			name:     "unknown error falls back",
			err:      errors.New("something odd"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("duplicate key value violates unique constraint")
	result := FormatUserError(err)

	expected := "The table already holds a row with this key (Code: DB001). Load into an empty schema; loading is not incremental"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", errors.New("duplicate key"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not null", &pgconn.PgError{Code: "23502", Message: "null value"}, tseload.ErrConstraint},
		{"foreign key", &pgconn.PgError{Code: "23503"}, tseload.ErrConstraint},
		{"unique", fmt.Errorf("send: %w", &pgconn.PgError{Code: "23505"}), tseload.ErrConstraint},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, tseload.ErrInsertion},
		{"plain error", errors.New("conn closed"), tseload.ErrInsertion},
		{"already classified", fmt.Errorf("%w: bad", tseload.ErrFormat), tseload.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStoreError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("ClassifyStoreError() = %v, want %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("ClassifyStoreError() lost the cause %v", tt.err)
			}
		})
	}

	if ClassifyStoreError(nil) != nil {
		t.Error("ClassifyStoreError(nil) should be nil")
	}
}

func TestClassifyStoreError_CancelledContextStaysUnclassified(t *testing.T) {
	cause := fmt.Errorf("send batch: %w", context.Canceled)

	got := ClassifyStoreError(cause)

	if IsClassified(got) {
		t.Errorf("ClassifyStoreError() = %v, want it unclassified", got)
	}
	if !errors.Is(got, context.Canceled) {
		t.Errorf("ClassifyStoreError() lost the cause %v", cause)
	}
	if code := tseload.ExitCodeForError(got); code != tseload.ExitGeneralError {
		t.Errorf("ExitCodeForError() = %d, want %d", code, tseload.ExitGeneralError)
	}
}

func TestEntityError(t *testing.T) {
	cause := fmt.Errorf("%w: boom", tseload.ErrConstraint)
	err := error(&EntityError{Table: "candidato", State: StateInserting, Err: cause})

	if !errors.Is(err, tseload.ErrConstraint) {
		t.Error("EntityError should unwrap to its cause")
	}
	if got, want := err.Error(), "load candidato (inserting): constraint violation: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
