// Package sourcetest builds small TSE exports for tests.
package sourcetest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JonMunkholm/tseload/internal/source"
	"golang.org/x/text/encoding/charmap"
)

// Row is a set of column overrides applied on top of Base.
type Row map[string]string

// Base is a complete, valid row for a 2022 general-election deputy.
func Base() Row {
	return Row{
		"CD_MUNICIPIO":              "100",
		"NM_MUNICIPIO":              "SÃO PAULO",
		"NR_ZONA":                   "1",
		"SG_UF":                     "SP",
		"SG_PARTIDO":                "ABC",
		"NM_PARTIDO":                "Partido Abc",
		"NR_PARTIDO":                "10",
		"CD_CARGO":                  "6",
		"DS_CARGO":                  "Deputado Federal",
		"CD_SITUACAO_CANDIDATURA":   "12",
		"DS_SITUACAO_CANDIDATURA":   "APTO",
		"NR_FEDERACAO":              "-1",
		"NM_FEDERACAO":              "#NULO#",
		"SG_FEDERACAO":              "#NULO#",
		"DS_COMPOSICAO_FEDERACAO":   "#NULO#",
		"SQ_COLIGACAO":              "250001",
		"NM_COLIGACAO":              "PARTIDO ISOLADO",
		"DS_COMPOSICAO_COLIGACAO":   "ABC",
		"CD_DETALHE_SITUACAO_CAND":  "2",
		"DS_DETALHE_SITUACAO_CAND":  "DEFERIDO",
		"SQ_CANDIDATO":              "250000000001",
		"NM_CANDIDATO":              "JOSÉ DA SILVA",
		"NM_URNA_CANDIDATO":         "ZÉ",
		"NM_SOCIAL_CANDIDATO":       "#NULO#",
		"NR_CANDIDATO":              "1010",
		"SG_UE":                     "SP",
		"NM_UE":                     "SÃO PAULO",
		"TP_AGREMIACAO":             "Partido isolado",
		"CD_ELEICAO":                "546",
		"NM_TIPO_ELEICAO":           "Eleição Ordinária",
		"NR_TURNO":                  "1",
		"DS_ELEICAO":                "Eleição Geral Federal 2022",
		"DT_ELEICAO":                "02/10/2022",
		"TP_ABRANGENCIA":            "F",
		"CD_SIT_TOT_TURNO":          "2",
		"DS_SIT_TOT_TURNO":          "ELEITO POR QP",
		"QT_VOTOS_NOMINAIS":         "120",
		"ST_VOTO_EM_TRANSITO":       "N",
		"NM_TIPO_DESTINACAO_VOTOS":  "Válido",
		"QT_VOTOS_NOMINAIS_VALIDOS": "120",
	}
}

// With returns Base with the given overrides applied.
func With(overrides Row) Row {
	r := Base()
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

// CSV renders rows as a Latin-1, ';' separated export with a full header.
func CSV(t testing.TB, rows ...Row) []byte {
	t.Helper()
	return CSVColumns(t, source.Columns(), rows...)
}

// CSVColumns renders rows using only the given header columns.
func CSVColumns(t testing.TB, columns []string, rows ...Row) []byte {
	t.Helper()

	var b strings.Builder
	b.WriteString(quoteJoin(columns))
	b.WriteString("\n")
	for _, row := range rows {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = row[col]
		}
		b.WriteString(quoteJoin(values))
		b.WriteString("\n")
	}

	encoded, err := charmap.ISO8859_1.NewEncoder().String(b.String())
	if err != nil {
		t.Fatalf("encode latin-1: %v", err)
	}
	return []byte(encoded)
}

// Table decodes rows into a source.Table, failing the test on error.
func Table(t testing.TB, rows ...Row) *source.Table {
	t.Helper()

	tbl, err := source.Decode(bytes.NewReader(CSV(t, rows...)))
	if err != nil {
		t.Fatalf("decode sample export: %v", err)
	}
	return tbl
}

// Normalized is Table followed by source.Normalize.
func Normalized(t testing.TB, rows ...Row) *source.Table {
	t.Helper()
	return source.Normalize(Table(t, rows...))
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, string(source.Delimiter))
}
