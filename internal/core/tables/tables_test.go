package tables_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/core/coretest"
	"github.com/JonMunkholm/tseload/internal/core/tables"
	"github.com/JonMunkholm/tseload/internal/source"
	"github.com/JonMunkholm/tseload/internal/source/sourcetest"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

func extract(t *testing.T, key string, tbl *source.Table) *core.Extraction {
	t.Helper()
	def, ok := core.Get(key)
	require.True(t, ok, "table %s not registered", key)

	ext, err := core.Extract(def, tbl)
	require.NoError(t, err)
	return ext
}

func TestPlan_RespectsReferences(t *testing.T) {
	plan, err := tables.Plan()
	require.NoError(t, err)
	require.Len(t, plan, 12)

	position := make(map[string]int, len(plan))
	for i, def := range plan {
		position[def.Info.Key] = i
	}
	for _, def := range plan {
		for _, ref := range def.References() {
			assert.Less(t, position[ref], position[def.Info.Key], "%s must follow %s", def.Info.Key, ref)
		}
	}
	assert.Equal(t, "qtd_votos", plan[len(plan)-1].Info.Key)
}

func TestSchema_CoversEveryTable(t *testing.T) {
	s, err := tables.Schema()
	require.NoError(t, err)

	stmts, err := s.Statements()
	require.NoError(t, err)
	assert.Len(t, stmts, len(tables.Enums)+len(tables.LoadOrder))
	assert.Len(t, tables.States, 30)
}

func TestBuild_ArgumentsMatchInsertColumns(t *testing.T) {
	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{
		"NR_FEDERACAO":            "1",
		"NM_FEDERACAO":            "Federação Brasil da Esperança",
		"SG_FEDERACAO":            "FE BRASIL",
		"DS_COMPOSICAO_FEDERACAO": "PT/PC do B/PV",
	}))

	for _, key := range tables.LoadOrder {
		def, _ := core.Get(key)
		ext := extract(t, key, tbl)
		require.Equal(t, 1, ext.Len(), key)

		if def.InsertSQL != "" {
			continue
		}
		assert.Len(t, ext.Rows[0], len(def.InsertColumns()), key)
	}
}

func TestEleicao_DateAndEnums(t *testing.T) {
	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{"DT_ELEICAO": "02/10/2022", "TP_ABRANGENCIA": "F"}))

	row := extract(t, "eleicao", tbl).Rows[0]

	date := row[4].(pgtype.Date)
	assert.True(t, date.Time.Equal(time.Date(2022, 10, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Eleição Ordinária", row[1].(pgtype.Text).String)
	assert.Equal(t, "F", row[5].(pgtype.Text).String)
}

func TestEnums_OtherSpellingsAreFormatErrors(t *testing.T) {
	tests := []struct {
		table  string
		column string
		value  string
	}{
		{"eleicao", "TP_ABRANGENCIA", "f"},
		{"eleicao", "NM_TIPO_ELEICAO", "ELEIÇÃO ORDINÁRIA"},
		{"locais", "SG_UF", "sp"},
		{"candidato", "TP_AGREMIACAO", "partido isolado"},
	}

	for _, tt := range tests {
		t.Run(tt.table+"/"+tt.column, func(t *testing.T) {
			def, _ := core.Get(tt.table)
			tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{tt.column: tt.value}))

			_, err := core.Extract(def, tbl)
			assert.ErrorIs(t, err, tseload.ErrFormat)
		})
	}
}

func TestEleicao_InvalidDateIsFormatError(t *testing.T) {
	def, _ := core.Get("eleicao")
	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{"DT_ELEICAO": "31/31/2022"}))

	_, err := core.Extract(def, tbl)
	assert.ErrorIs(t, err, tseload.ErrFormat)
}

func TestLocais_InvalidStateIsFormatError(t *testing.T) {
	def, _ := core.Get("locais")
	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{"SG_UF": "XX"}))

	_, err := core.Extract(def, tbl)
	assert.ErrorIs(t, err, tseload.ErrFormat)
}

func TestQtdVotos_RoundAndTransitFlag(t *testing.T) {
	tbl := sourcetest.Normalized(t,
		sourcetest.With(sourcetest.Row{"NR_TURNO": "2", "ST_VOTO_EM_TRANSITO": "S"}),
		sourcetest.With(sourcetest.Row{"NR_TURNO": "1", "ST_VOTO_EM_TRANSITO": "N"}),
		sourcetest.With(sourcetest.Row{"NR_TURNO": "1", "ST_VOTO_EM_TRANSITO": ""}),
		sourcetest.With(sourcetest.Row{"NR_TURNO": "1", "ST_VOTO_EM_TRANSITO": "s"}),
	)

	rows := extract(t, "qtd_votos", tbl).Rows
	require.Len(t, rows, 4)
	assert.False(t, rows[3][6].(pgtype.Bool).Bool, "only upper-case S means in transit")

	assert.Equal(t, "2", rows[0][2].(pgtype.Text).String)
	assert.True(t, rows[0][6].(pgtype.Bool).Bool)
	assert.False(t, rows[1][6].(pgtype.Bool).Bool)
	assert.False(t, rows[2][6].(pgtype.Bool).Bool)
	assert.True(t, rows[2][6].(pgtype.Bool).Valid)
}

func TestCandidato_SentinelsBecomeNull(t *testing.T) {
	// Base has no federation: NR_FEDERACAO is -1.
	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{"NM_SOCIAL_CANDIDATO": "#NULO#"}))

	row := extract(t, "candidato", tbl).Rows[0]

	assert.False(t, row[3].(pgtype.Text).Valid, "nome_social")
	assert.False(t, row[11].(pgtype.Int4).Valid, "federacao")
	for _, v := range row {
		if txt, ok := v.(pgtype.Text); ok {
			assert.NotEqual(t, "#NULO#", txt.String)
			assert.NotEqual(t, "-1", txt.String)
		}
	}
}

func TestPartidos_FirstOccurrenceWins(t *testing.T) {
	tbl := sourcetest.Normalized(t,
		sourcetest.With(sourcetest.Row{"SG_PARTIDO": "PT", "NM_PARTIDO": "Partido dos Trabalhadores", "NR_PARTIDO": "13"}),
		sourcetest.With(sourcetest.Row{"SG_PARTIDO": "PL", "NM_PARTIDO": "Partido Liberal", "NR_PARTIDO": "22"}),
		sourcetest.With(sourcetest.Row{"SG_PARTIDO": "PT", "NM_PARTIDO": "Outro Nome", "NR_PARTIDO": "13"}),
	)

	ext := extract(t, "partidos", tbl)
	require.Equal(t, 2, ext.Len())
	assert.Equal(t, "Partido dos Trabalhadores", ext.Rows[0][1].(pgtype.Text).String)
}

func TestFederacao_SkippedWithoutFederation(t *testing.T) {
	tbl := sourcetest.Normalized(t, sourcetest.Base(), sourcetest.Base())

	ext := extract(t, "federacao", tbl)
	assert.Zero(t, ext.Len())
	assert.Equal(t, 2, ext.Skipped)
}

func threeRowExport(t *testing.T) *source.Table {
	return sourcetest.Normalized(t,
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "100", "SQ_CANDIDATO": "250000000001"}),
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "100", "SQ_CANDIDATO": "250000000002"}),
		sourcetest.With(sourcetest.Row{"CD_MUNICIPIO": "200", "NM_MUNICIPIO": "CAMPINAS", "SQ_CANDIDATO": "250000000001"}),
	)
}

func TestLoad_ThreeRowScenario(t *testing.T) {
	plan, err := tables.Plan()
	require.NoError(t, err)

	store := &coretest.Store{}
	result, err := core.NewLoader(store).Run(context.Background(), plan, threeRowExport(t))
	require.NoError(t, err)

	var withRows []string
	for _, key := range tables.LoadOrder {
		if key != "federacao" {
			withRows = append(withRows, key)
		}
	}
	assert.Equal(t, withRows, store.CommitOrder())
	assert.Equal(t, 2, store.Count("municipios"))
	assert.Equal(t, 2, store.Count("candidato"))
	assert.Equal(t, 2, store.Count("locais"))
	assert.Equal(t, 1, store.Count("eleicao"))
	assert.Equal(t, 3, store.Count("qtd_votos"), "one vote row per source row")
	assert.Zero(t, store.Count("federacao"))
	assert.Len(t, result.Committed(), 12)
}

func TestLoad_CandidateFailureScenario(t *testing.T) {
	plan, err := tables.Plan()
	require.NoError(t, err)

	notNull := &pgconn.PgError{
		Code:    "23502",
		Message: `null value in column "nome_urna" of relation "candidato" violates not-null constraint`,
	}
	store := &coretest.Store{Fail: coretest.FailTable("candidato", notNull)}

	tbl := sourcetest.Normalized(t, sourcetest.With(sourcetest.Row{"NM_URNA_CANDIDATO": "#NULO#"}))
	result, err := core.NewLoader(store).Run(context.Background(), plan, tbl)

	require.Error(t, err)
	assert.True(t, errors.Is(err, tseload.ErrConstraint))
	assert.Equal(t, "candidato", result.Failed().Table)

	for _, key := range []string{"municipios", "partidos", "cargo", "situacao", "coligacao", "situacao_detalhe", "situacao_totalizacao"} {
		assert.Equal(t, 1, store.Count(key), "%s stays committed", key)
	}
	for _, key := range []string{"candidato", "eleicao", "locais", "qtd_votos"} {
		assert.Zero(t, store.Count(key), "%s must not be inserted", key)
	}
	assert.Equal(t, "DB003", core.MapError(err).Code)
}
