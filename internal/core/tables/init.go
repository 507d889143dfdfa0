// Package tables registers all table definitions with the core registry.
// Import this package to ensure all tables are registered.
package tables

import "github.com/JonMunkholm/tseload/internal/core"

// LoadOrder lists every table so that each one follows the tables it
// references: independent entities first, then candidates and elections,
// polling locations, and the vote-count facts last.
var LoadOrder = []string{
	"municipios",
	"partidos",
	"cargo",
	"situacao",
	"federacao",
	"coligacao",
	"situacao_detalhe",
	"situacao_totalizacao",
	"candidato",
	"eleicao",
	"locais",
	"qtd_votos",
}

// Plan returns the registered definitions in LoadOrder.
func Plan() ([]core.TableDefinition, error) {
	return core.Plan(LoadOrder)
}

// Schema returns the enum types and tables to create before loading.
func Schema() (core.Schema, error) {
	plan, err := Plan()
	if err != nil {
		return core.Schema{}, err
	}
	return core.Schema{Enums: Enums, Tables: plan}, nil
}
