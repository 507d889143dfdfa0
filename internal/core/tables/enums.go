package tables

import "github.com/JonMunkholm/tseload/internal/core"

// States lists the federative unit codes found in SG_UF. ZZ marks votes
// cast abroad, BR national scope and VT in-transit voting.
var States = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA",
	"MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN",
	"RS", "RO", "RR", "SC", "SP", "SE", "TO", "ZZ", "BR", "VT",
}

// AgglomerationTypes lists the TP_AGREMIACAO values.
var AgglomerationTypes = []string{
	"Federação",
	"Coligação",
	"Partido isolado",
	"Partido",
	"Partido em coligação",
}

// ElectionTypes lists the NM_TIPO_ELEICAO values.
var ElectionTypes = []string{
	"Eleição Ordinária",
	"Eleição Suplementar",
	"Consulta Popular",
	"Eleição Majoritária",
}

// Scopes lists the TP_ABRANGENCIA values: state, municipal, federal.
var Scopes = []string{"E", "M", "F"}

// Enums are created before any table that uses them.
var Enums = []core.EnumType{
	{Name: "estados_enum", Values: States},
	{Name: "agremiacao_enum", Values: AgglomerationTypes},
	{Name: "tipo_eleicao_enum", Values: ElectionTypes},
	{Name: "abrangencia_enum", Values: Scopes},
	{Name: "turno_enum", Values: core.Rounds},
}
