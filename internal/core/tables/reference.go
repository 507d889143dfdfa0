package tables

import (
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

// Reference tables depend on nothing and are loaded first.

func init() {
	registerMunicipios()
	registerPartidos()
	registerCargo()
	registerSituacao()
	registerFederacao()
	registerColigacao()
	registerSituacaoDetalhe()
	registerSituacaoTotalizacao()
}

func registerMunicipios() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "municipios",
			Label:    "Municipality",
			DedupKey: []string{"CD_MUNICIPIO"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "INTEGER", PrimaryKey: true},
			{Name: "nome", SQLType: "TEXT", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_MUNICIPIO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(2).
				int4("CD_MUNICIPIO", r.CdMunicipio).
				text(r.NmMunicipio).
				done()
		},
	})
}

func registerPartidos() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "partidos",
			Label:    "Party",
			DedupKey: []string{"SG_PARTIDO"},
		},
		Columns: []core.Column{
			{Name: "sigla", SQLType: "VARCHAR(10)", PrimaryKey: true},
			{Name: "nome", SQLType: "TEXT", NotNull: true},
			{Name: "numero", SQLType: "SMALLINT", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "NR_PARTIDO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(3).
				text(r.SgPartido).
				text(r.NmPartido).
				int2("NR_PARTIDO", r.NrPartido).
				done()
		},
	})
}

func registerCargo() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "cargo",
			Label:    "Office",
			DedupKey: []string{"CD_CARGO"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "SMALLINT", PrimaryKey: true},
			{Name: "cargo", SQLType: "TEXT", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_CARGO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(2).
				int2("CD_CARGO", r.CdCargo).
				text(r.DsCargo).
				done()
		},
	})
}

func registerSituacao() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "situacao",
			Label:    "CandidacyStatus",
			DedupKey: []string{"CD_SITUACAO_CANDIDATURA"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "SMALLINT", PrimaryKey: true},
			{Name: "situacao", SQLType: "TEXT", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_SITUACAO_CANDIDATURA", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(2).
				int2("CD_SITUACAO_CANDIDATURA", r.CdSituacaoCandidatura).
				text(r.DsSituacaoCandidatura).
				done()
		},
	})
}

// registerFederacao keys on number and composition together: the export
// repeats a federation number only with the same composition.
func registerFederacao() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "federacao",
			Label:    "Federation",
			DedupKey: []string{"NR_FEDERACAO", "DS_COMPOSICAO_FEDERACAO"},
		},
		Columns: []core.Column{
			{Name: "numero", SQLType: "INTEGER", PrimaryKey: true},
			{Name: "nome", SQLType: "TEXT", NotNull: true},
			{Name: "sigla", SQLType: "VARCHAR(10)"},
			{Name: "composicao", SQLType: "TEXT"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "NR_FEDERACAO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(4).
				int4("NR_FEDERACAO", r.NrFederacao).
				text(r.NmFederacao).
				text(r.SgFederacao).
				text(r.DsComposicaoFederacao).
				done()
		},
	})
}

func registerColigacao() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "coligacao",
			Label:    "Coalition",
			DedupKey: []string{"SQ_COLIGACAO"},
		},
		Columns: []core.Column{
			{Name: "numero", SQLType: "BIGINT", PrimaryKey: true},
			{Name: "nome", SQLType: "TEXT", NotNull: true},
			{Name: "composicao", SQLType: "TEXT", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "SQ_COLIGACAO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(3).
				int8("SQ_COLIGACAO", r.SqColigacao).
				text(r.NmColigacao).
				text(r.DsComposicaoColigacao).
				done()
		},
	})
}

func registerSituacaoDetalhe() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "situacao_detalhe",
			Label:    "CandidacyStatusDetail",
			DedupKey: []string{"CD_DETALHE_SITUACAO_CAND"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "SMALLINT", PrimaryKey: true},
			{Name: "descricao", SQLType: "VARCHAR(50)", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_DETALHE_SITUACAO_CAND", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(2).
				int2("CD_DETALHE_SITUACAO_CAND", r.CdDetalheSituacaoCand).
				text(r.DsDetalheSituacaoCand).
				done()
		},
	})
}

func registerSituacaoTotalizacao() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "situacao_totalizacao",
			Label:    "TotalizationStatus",
			DedupKey: []string{"CD_SIT_TOT_TURNO"},
		},
		Columns: []core.Column{
			{Name: "id", SQLType: "SMALLINT", PrimaryKey: true},
			{Name: "descricao", SQLType: "VARCHAR(50)", NotNull: true},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "CD_SIT_TOT_TURNO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(2).
				int2("CD_SIT_TOT_TURNO", r.CdSitTotTurno).
				text(r.DsSitTotTurno).
				done()
		},
	})
}
