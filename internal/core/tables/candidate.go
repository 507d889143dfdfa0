package tables

import (
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

func init() {
	registerCandidato()
}

// registerCandidato defines candidates. Federation, coalition and status
// detail are optional references; an absent source value stores NULL.
func registerCandidato() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "candidato",
			Label:    "Candidate",
			DedupKey: []string{"SQ_CANDIDATO"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "BIGINT", PrimaryKey: true},
			{Name: "nome", SQLType: "TEXT", NotNull: true},
			{Name: "nome_urna", SQLType: "TEXT", NotNull: true},
			{Name: "nome_social", SQLType: "TEXT"},
			{Name: "numero_candidatura", SQLType: "INTEGER", NotNull: true},
			{Name: "unidade_eleitoral_sigla", SQLType: "VARCHAR(50)"},
			{Name: "unidade_eleitoral", SQLType: "TEXT"},
			{Name: "tipo_agremiacao", SQLType: "agremiacao_enum"},
			{Name: "cargo", SQLType: "SMALLINT", NotNull: true, References: "cargo"},
			{Name: "situacao", SQLType: "SMALLINT", References: "situacao"},
			{Name: "partido", SQLType: "VARCHAR(10)", NotNull: true, References: "partidos"},
			{Name: "federacao", SQLType: "INTEGER", References: "federacao"},
			{Name: "coligacao", SQLType: "BIGINT", References: "coligacao"},
			{Name: "situacao_detalhe", SQLType: "SMALLINT", References: "situacao_detalhe"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "SQ_CANDIDATO", Type: core.FieldInt},
			{Name: "NR_CANDIDATO", Type: core.FieldInt},
			{Name: "TP_AGREMIACAO", Type: core.FieldEnum, EnumValues: AgglomerationTypes},
			{Name: "CD_CARGO", Type: core.FieldInt},
			{Name: "CD_SITUACAO_CANDIDATURA", Type: core.FieldInt},
			{Name: "NR_FEDERACAO", Type: core.FieldInt},
			{Name: "SQ_COLIGACAO", Type: core.FieldInt},
			{Name: "CD_DETALHE_SITUACAO_CAND", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(14).
				int8("SQ_CANDIDATO", r.SqCandidato).
				text(r.NmCandidato).
				text(r.NmUrnaCandidato).
				text(r.NmSocialCandidato).
				int4("NR_CANDIDATO", r.NrCandidato).
				text(r.SgUE).
				text(r.NmUE).
				enum("TP_AGREMIACAO", r.TpAgremiacao, AgglomerationTypes).
				int2("CD_CARGO", r.CdCargo).
				int2("CD_SITUACAO_CANDIDATURA", r.CdSituacaoCandidatura).
				text(r.SgPartido).
				int4("NR_FEDERACAO", r.NrFederacao).
				int8("SQ_COLIGACAO", r.SqColigacao).
				int2("CD_DETALHE_SITUACAO_CAND", r.CdDetalheSituacaoCand).
				done()
		},
	})
}
