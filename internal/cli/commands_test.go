package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source/sourcetest"
	"github.com/JonMunkholm/tseload/internal/testinfra"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

func resetFlags(t *testing.T) {
	t.Helper()

	globalFlags = globalFlagValues{configPath: tseload.DefaultConfigFile, progress: "never"}
	inspectFlags.file = ""
	schemaFlags.print = false

	for _, key := range []string{"DB_URI", "DB_MAX_CONNS", "FILE_PATH", "LOAD_BATCH_SIZE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCmd_ArgsValidation(t *testing.T) {
	err := loadCmd.Args(loadCmd, []string{"extra"})
	if err == nil {
		t.Fatal("Expected error for positional args")
	}
	if code := tseload.ExitCodeForError(err); code != tseload.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", tseload.ExitUsageError, code, err)
	}
}

func TestLoadCmd_MissingConfigFile(t *testing.T) {
	resetFlags(t)
	globalFlags.configPath = filepath.Join(t.TempDir(), "absent.json")

	loadCmd.SetContext(context.Background())
	err := runLoad(loadCmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, tseload.ErrConfig)
	assert.Equal(t, "CFG001", core.MapError(err).Code)
}

func TestLoadCmd_InvalidProgressMode(t *testing.T) {
	resetFlags(t)
	globalFlags.configPath = writeFile(t, "config.json",
		[]byte(`{"DB_URI": "postgres://localhost/tse", "FILE_PATH": "votos.csv"}`))
	globalFlags.progress = "sometimes"

	loadCmd.SetContext(context.Background())
	err := runLoad(loadCmd, nil)

	assert.ErrorIs(t, err, tseload.ErrConfig)
}

func TestLoadCmd_LogFlagsAreValidated(t *testing.T) {
	resetFlags(t)
	globalFlags.configPath = writeFile(t, "config.json",
		[]byte(`{"DB_URI": "postgres://localhost/tse", "FILE_PATH": "votos.csv"}`))
	globalFlags.logFormat = "xml"

	loadCmd.SetContext(context.Background())
	err := runLoad(loadCmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, tseload.ErrConfig)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoadCmd_MissingSourceFile(t *testing.T) {
	resetFlags(t)
	globalFlags.configPath = writeFile(t, "config.yaml", []byte(
		"DB_URI: postgres://localhost/tse\nFILE_PATH: "+filepath.Join(t.TempDir(), "absent.csv")+"\n"))

	loadCmd.SetContext(context.Background())
	err := runLoad(loadCmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, tseload.ErrIO)
	assert.Equal(t, "FILE004", core.MapError(err).Code)
}

func TestLoadCmd_EmptyConfigReadsEnvironment(t *testing.T) {
	resetFlags(t)
	globalFlags.configPath = ""
	t.Setenv("DB_URI", "postgres://localhost/tse")
	t.Setenv("FILE_PATH", filepath.Join(t.TempDir(), "absent.csv"))

	loadCmd.SetContext(context.Background())
	err := runLoad(loadCmd, nil)

	// configuration was accepted, the run failed on the source file
	assert.ErrorIs(t, err, tseload.ErrIO)
	assert.NotErrorIs(t, err, tseload.ErrConfig)
}

func TestInspectCmd_CountsRows(t *testing.T) {
	resetFlags(t)
	inspectFlags.file = writeFile(t, "votos.csv", sourcetest.CSV(t,
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "100", "SQ_CANDIDATO": "250000000001"}),
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "100", "SQ_CANDIDATO": "250000000002"}),
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "200", "NM_MUNICIPIO": "CAMPINAS", "SQ_CANDIDATO": "250000000001"}),
	))

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	inspectCmd.SetContext(context.Background())
	require.NoError(t, runInspect(inspectCmd, nil))

	text := out.String()
	assert.Contains(t, text, "3 source rows")
	assert.Regexp(t, `municipios\s+2\s+1`, text)
	assert.Regexp(t, `federacao\s+0\s+3`, text)
	assert.Regexp(t, `qtd_votos\s+3\s+0`, text)
}

func TestInspectCmd_ExtractionErrorNamesTable(t *testing.T) {
	resetFlags(t)
	inspectFlags.file = writeFile(t, "votos.csv", sourcetest.CSV(t,
		sourcetest.With(sourcetest.Row{"DT_ELEICAO": "31/31/2022"}),
	))

	inspectCmd.SetOut(&bytes.Buffer{})
	inspectCmd.SetContext(context.Background())
	err := runInspect(inspectCmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, tseload.ErrFormat)

	var entityErr *core.EntityError
	require.True(t, errors.As(err, &entityErr))
	assert.Equal(t, "eleicao", entityErr.Table)
	assert.Equal(t, "VAL001", core.MapError(err).Code)
}

func TestSchemaCmd_PrintNeedsNoDatabase(t *testing.T) {
	resetFlags(t)
	schemaFlags.print = true

	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	schemaCmd.SetContext(context.Background())
	require.NoError(t, runSchema(schemaCmd, nil))

	text := out.String()
	assert.Contains(t, text, "CREATE TYPE estados_enum AS ENUM")
	assert.Contains(t, text, "CREATE TABLE IF NOT EXISTS qtd_votos")
	assert.Less(t, strings.Index(text, "CREATE TABLE IF NOT EXISTS municipios"),
		strings.Index(text, "CREATE TABLE IF NOT EXISTS locais"))
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	err := &core.EntityError{
		Table: "candidato",
		State: core.StateInserting,
		Err:   errors.New(`null value in column "nome_urna" violates not-null constraint`),
	}

	reportError(&out, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "load candidato (inserting)")
	assert.Contains(t, lines[1], "Code: DB003")
}

func TestReportError_UnknownHasNoDiagnostic(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, errors.New("something odd"))
	assert.Equal(t, "Error: something odd\n", out.String())
}

func TestPrintRunSummary(t *testing.T) {
	result := &core.RunResult{
		RunID: "run-1",
		Entities: []core.EntityResult{
			{Table: "municipios", State: core.StateCommitted, Extracted: 2, Inserted: 2, Duration: 3 * time.Millisecond},
			{Table: "candidato", State: core.StateAborted, Extracted: 1},
			{Table: "qtd_votos", State: core.StatePending},
		},
		Duration: 5 * time.Millisecond,
	}

	var out bytes.Buffer
	printRunSummary(&out, result)

	text := out.String()
	assert.Contains(t, text, "Run run-1")
	assert.Regexp(t, `municipios\s+committed\s+2\s+0\s+2\s+3`, text)
	assert.Regexp(t, `candidato\s+aborted\s+1\s+0\s+0`, text)
	assert.Regexp(t, `qtd_votos\s+pending`, text)
	assert.Contains(t, text, "1 of 3 tables committed, 2 rows inserted")
}

func TestProgressBars(t *testing.T) {
	var out bytes.Buffer
	bars := newProgressBars(&out)

	bars.update(core.Progress{Table: "municipios", State: core.StateExtracting})
	assert.Nil(t, bars.bar, "no bar before inserting")

	bars.update(core.Progress{Table: "municipios", State: core.StateInserting, Total: 4})
	require.NotNil(t, bars.bar)
	bars.update(core.Progress{Table: "municipios", State: core.StateInserting, Done: 2, Total: 4})
	assert.EqualValues(t, 2, bars.bar.Current())

	bars.update(core.Progress{Table: "municipios", State: core.StateCommitted, Done: 4, Total: 4})
	assert.Nil(t, bars.bar)
	assert.Contains(t, out.String(), "municipios")

	bars.update(core.Progress{Table: "partidos", State: core.StateInserting, Total: 1})
	bars.update(core.Progress{Table: "partidos", State: core.StateRolledBack, Total: 1})
	assert.Nil(t, bars.bar)
	assert.Contains(t, out.String(), "rolled back")
}

// ----------------------------------------------------------------------------
// Integration Tests
// ----------------------------------------------------------------------------

func TestLoadCmd_EndToEnd(t *testing.T) {
	uri := testinfra.IsolatedSchema(t, testinfra.RequireDatabase(t))
	resetFlags(t)

	csvPath := writeFile(t, "votos.csv", sourcetest.CSV(t,
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "100", "SQ_CANDIDATO": "250000000001"}),
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "200", "NM_MUNICIPIO": "CAMPINAS", "SQ_CANDIDATO": "250000000002"}),
	))
	globalFlags.configPath = writeFile(t, "config.yaml", []byte(
		"DB_URI: \""+uri+"\"\nFILE_PATH: "+csvPath+"\nLOAD_BATCH_SIZE: 1\n"))

	var out bytes.Buffer
	loadCmd.SetOut(&out)
	loadCmd.SetContext(context.Background())
	require.NoError(t, runLoad(loadCmd, nil))

	assert.Contains(t, out.String(), "12 of 12 tables committed")
	assert.Regexp(t, `qtd_votos\s+committed\s+2\s+0\s+2`, out.String())
}
