package tables

import (
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

func init() {
	registerEleicao()
}

func registerEleicao() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "eleicao",
			Label:    "Election",
			DedupKey: []string{"CD_ELEICAO"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "INTEGER", PrimaryKey: true},
			{Name: "tipo", SQLType: "tipo_eleicao_enum", NotNull: true},
			{Name: "turno", SQLType: "SMALLINT", NotNull: true},
			{Name: "descricao", SQLType: "TEXT"},
			{Name: "data", SQLType: "DATE", NotNull: true},
			{Name: "abrangencia", SQLType: "abrangencia_enum"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_ELEICAO", Type: core.FieldInt},
			{Name: "NM_TIPO_ELEICAO", Type: core.FieldEnum, EnumValues: ElectionTypes},
			{Name: "NR_TURNO", Type: core.FieldInt},
			{Name: "DT_ELEICAO", Type: core.FieldDate},
			{Name: "TP_ABRANGENCIA", Type: core.FieldEnum, EnumValues: Scopes},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(6).
				int4("CD_ELEICAO", r.CdEleicao).
				enum("NM_TIPO_ELEICAO", r.NmTipoEleicao, ElectionTypes).
				int2("NR_TURNO", r.NrTurno).
				text(r.DsEleicao).
				date("DT_ELEICAO", r.DtEleicao).
				enum("TP_ABRANGENCIA", r.TpAbrangencia, Scopes).
				done()
		},
	})
}
