package testinfra

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConnEnv names the variable that points tests at an existing server
// instead of a container.
const ConnEnv = "TSELOAD_TEST_DB_URI"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func getOrStartContainer() (string, error) {
	containerOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = ctr.ConnString
	})
	return containerConn, containerErr
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase returns a connection string for a test server.
// Priority: TSELOAD_TEST_DB_URI > auto-started container > skip test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)

	if connString := os.Getenv(ConnEnv); connString != "" {
		return connString
	}

	connString, err := getOrStartContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnv, err)
	}
	return connString
}

// IsolatedSchema creates an empty schema for the calling test, drops it on
// cleanup, and returns connString with search_path pointing at it. Loading
// is not incremental, so every test starts from nothing.
func IsolatedSchema(t *testing.T, connString string) string {
	t.Helper()
	ctx := context.Background()

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE SCHEMA "+name); err != nil {
		t.Fatalf("create schema %s: %v", name, err)
	}

	t.Cleanup(func() {
		conn, err := pgx.Connect(context.Background(), connString)
		if err != nil {
			t.Logf("cleanup connect: %v", err)
			return
		}
		defer conn.Close(context.Background())
		if _, err := conn.Exec(context.Background(), "DROP SCHEMA "+name+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", name, err)
		}
	})

	return withSearchPath(t, connString, name)
}

func withSearchPath(t *testing.T, connString, schema string) string {
	t.Helper()

	u, err := url.Parse(connString)
	if err != nil {
		t.Fatalf("parse connection string: %v", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	if u.Scheme == "" {
		t.Fatalf("%s must be a postgres:// URL", ConnEnv)
	}
	return u.String()
}
