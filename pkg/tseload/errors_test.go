package tseload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/tseload/pkg/tseload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, tseload.ExitSuccess},
		{"general error", errors.New("something went wrong"), tseload.ExitGeneralError},
		{"config", tseload.ErrConfig, tseload.ExitConfigError},
		{"wrapped io", fmt.Errorf("open source: %w", tseload.ErrIO), tseload.ExitIOError},
		{"parse", fmt.Errorf("%w: missing column", tseload.ErrParse), tseload.ExitDataError},
		{"format", fmt.Errorf("eleicao: %w", tseload.ErrFormat), tseload.ExitDataError},
		{"constraint", fmt.Errorf("candidato: %w", tseload.ErrConstraint), tseload.ExitConstraintError},
		{"insertion", fmt.Errorf("qtd_votos: %w", tseload.ErrInsertion), tseload.ExitInsertionError},
		{"unknown flag", errors.New("unknown flag: --foo"), tseload.ExitUsageError},
		{"wrong args", errors.New("accepts 0 arg(s), received 2"), tseload.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tseload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_DoubleWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: duplicate key")
	err := fmt.Errorf("load partidos: %w: %w", tseload.ErrConstraint, cause)

	if got := tseload.ExitCodeForError(err); got != tseload.ExitConstraintError {
		t.Fatalf("ExitCodeForError = %d, want %d", got, tseload.ExitConstraintError)
	}
	if !errors.Is(err, cause) {
		t.Fatal("original cause lost from error chain")
	}
}
