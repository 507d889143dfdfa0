package tables

import (
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

func init() {
	registerLocais()
}

// registerLocais defines polling locations, one per (zone, municipality).
// Their ids are generated; vote counts find them again by the same pair.
func registerLocais() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "locais",
			Label:    "PollingLocation",
			DedupKey: []string{"NR_ZONA", "CD_MUNICIPIO"},
		},
		Columns: []core.Column{
			{Name: "id_local", SQLType: "SERIAL", PrimaryKey: true},
			{Name: "id_zona_eleitoral", SQLType: "VARCHAR(5)", NotNull: true},
			{Name: "unidade_federacao", SQLType: "estados_enum", NotNull: true},
			{Name: "id_municipio", SQLType: "INTEGER", NotNull: true, References: "municipios"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "SG_UF", Type: core.FieldEnum, EnumValues: States},
			{Name: "CD_MUNICIPIO", Type: core.FieldInt},
		},
		Build: func(r *source.Record) ([]any, error) {
			return newArgs(3).
				text(r.NrZona).
				enum("SG_UF", r.SgUF, States).
				int4("CD_MUNICIPIO", r.CdMunicipio).
				done()
		},
	})
}
