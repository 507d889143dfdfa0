package tables

import (
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

func init() {
	registerQtdVotos()
}

// insertQtdVotos resolves the polling location from the (zone, municipality)
// pair it was deduplicated on.
const insertQtdVotos = `INSERT INTO qtd_votos (
	eleicao, candidato, turno, local, qtd_votos,
	voto_em_transito, tipo_destinacao, qtd_votos_validos, situacao_tot
) VALUES (
	$1, $2, $3,
	(SELECT id_local FROM locais WHERE id_zona_eleitoral = $4 AND id_municipio = $5),
	$6, $7, $8, $9, $10
)`

// registerQtdVotos defines the fact table: one row per source row, no dedup.
func registerQtdVotos() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "qtd_votos",
			Label: "VoteCount",
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "SERIAL", PrimaryKey: true},
			{Name: "eleicao", SQLType: "INTEGER", NotNull: true, References: "eleicao"},
			{Name: "candidato", SQLType: "BIGINT", NotNull: true, References: "candidato"},
			{Name: "turno", SQLType: "turno_enum", NotNull: true},
			{Name: "local", SQLType: "INTEGER", NotNull: true, References: "locais"},
			{Name: "qtd_votos", SQLType: "INTEGER", NotNull: true},
			{Name: "voto_em_transito", SQLType: "BOOLEAN"},
			{Name: "tipo_destinacao", SQLType: "VARCHAR(50)"},
			{Name: "qtd_votos_validos", SQLType: "INTEGER"},
			{Name: "situacao_tot", SQLType: "SMALLINT", References: "situacao_totalizacao"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_ELEICAO", Type: core.FieldInt},
			{Name: "SQ_CANDIDATO", Type: core.FieldInt},
			{Name: "NR_TURNO", Type: core.FieldInt},
			{Name: "CD_MUNICIPIO", Type: core.FieldInt},
			{Name: "QT_VOTOS_NOMINAIS", Type: core.FieldInt},
			{Name: "QT_VOTOS_NOMINAIS_VALIDOS", Type: core.FieldInt},
			{Name: "CD_SIT_TOT_TURNO", Type: core.FieldInt},
		},
		InsertSQL: insertQtdVotos,
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(10).
				int4("CD_ELEICAO", r.CdEleicao).
				int8("SQ_CANDIDATO", r.SqCandidato).
				round("NR_TURNO", r.NrTurno).
				text(r.NrZona).
				int4("CD_MUNICIPIO", r.CdMunicipio).
				int4("QT_VOTOS_NOMINAIS", r.QtVotosNominais).
				flag(r.StVotoEmTransito).
				text(r.NmTipoDestinacaoVotos).
				int4("QT_VOTOS_NOMINAIS_VALIDOS", r.QtVotosNominaisValidos).
				int2("CD_SIT_TOT_TURNO", r.CdSitTotTurno).
				done()
		},
	})
}
