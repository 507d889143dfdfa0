package source

import (
	"fmt"
	"reflect"
	"sync"
)

// Record is one row of the TSE vote-count export.
// Field tags are the export's column names and form the external contract:
// a file missing any of them is rejected by Decode.
type Record struct {
	CdMunicipio            Cell `csv:"CD_MUNICIPIO"`
	NmMunicipio            Cell `csv:"NM_MUNICIPIO"`
	NrZona                 Cell `csv:"NR_ZONA"`
	SgUF                   Cell `csv:"SG_UF"`
	SgPartido              Cell `csv:"SG_PARTIDO"`
	NmPartido              Cell `csv:"NM_PARTIDO"`
	NrPartido              Cell `csv:"NR_PARTIDO"`
	CdCargo                Cell `csv:"CD_CARGO"`
	DsCargo                Cell `csv:"DS_CARGO"`
	CdSituacaoCandidatura  Cell `csv:"CD_SITUACAO_CANDIDATURA"`
	DsSituacaoCandidatura  Cell `csv:"DS_SITUACAO_CANDIDATURA"`
	NrFederacao            Cell `csv:"NR_FEDERACAO"`
	NmFederacao            Cell `csv:"NM_FEDERACAO"`
	SgFederacao            Cell `csv:"SG_FEDERACAO"`
	DsComposicaoFederacao  Cell `csv:"DS_COMPOSICAO_FEDERACAO"`
	SqColigacao            Cell `csv:"SQ_COLIGACAO"`
	NmColigacao            Cell `csv:"NM_COLIGACAO"`
	DsComposicaoColigacao  Cell `csv:"DS_COMPOSICAO_COLIGACAO"`
	CdDetalheSituacaoCand  Cell `csv:"CD_DETALHE_SITUACAO_CAND"`
	DsDetalheSituacaoCand  Cell `csv:"DS_DETALHE_SITUACAO_CAND"`
	SqCandidato            Cell `csv:"SQ_CANDIDATO"`
	NmCandidato            Cell `csv:"NM_CANDIDATO"`
	NmUrnaCandidato        Cell `csv:"NM_URNA_CANDIDATO"`
	NmSocialCandidato      Cell `csv:"NM_SOCIAL_CANDIDATO"`
	NrCandidato            Cell `csv:"NR_CANDIDATO"`
	SgUE                   Cell `csv:"SG_UE"`
	NmUE                   Cell `csv:"NM_UE"`
	TpAgremiacao           Cell `csv:"TP_AGREMIACAO"`
	CdEleicao              Cell `csv:"CD_ELEICAO"`
	NmTipoEleicao          Cell `csv:"NM_TIPO_ELEICAO"`
	NrTurno                Cell `csv:"NR_TURNO"`
	DsEleicao              Cell `csv:"DS_ELEICAO"`
	DtEleicao              Cell `csv:"DT_ELEICAO"`
	TpAbrangencia          Cell `csv:"TP_ABRANGENCIA"`
	CdSitTotTurno          Cell `csv:"CD_SIT_TOT_TURNO"`
	DsSitTotTurno          Cell `csv:"DS_SIT_TOT_TURNO"`
	QtVotosNominais        Cell `csv:"QT_VOTOS_NOMINAIS"`
	StVotoEmTransito       Cell `csv:"ST_VOTO_EM_TRANSITO"`
	NmTipoDestinacaoVotos  Cell `csv:"NM_TIPO_DESTINACAO_VOTOS"`
	QtVotosNominaisValidos Cell `csv:"QT_VOTOS_NOMINAIS_VALIDOS"`
}

var (
	columnsOnce sync.Once
	columnNames []string
	columnIndex map[string]int // column name -> struct field index
)

func buildColumnIndex() {
	t := reflect.TypeOf(Record{})
	columnNames = make([]string, 0, t.NumField())
	columnIndex = make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("csv")
		columnNames = append(columnNames, name)
		columnIndex[name] = i
	}
}

// Columns returns the required column names in declaration order.
func Columns() []string {
	columnsOnce.Do(buildColumnIndex)
	out := make([]string, len(columnNames))
	copy(out, columnNames)
	return out
}

// HasColumn reports whether name is one of the required columns.
func HasColumn(name string) bool {
	columnsOnce.Do(buildColumnIndex)
	_, ok := columnIndex[name]
	return ok
}

// Value returns the cell stored under the given column name.
func (r *Record) Value(column string) (Cell, error) {
	columnsOnce.Do(buildColumnIndex)
	i, ok := columnIndex[column]
	if !ok {
		return Cell{}, fmt.Errorf("column not found: %s", column)
	}
	return reflect.ValueOf(r).Elem().Field(i).Interface().(Cell), nil
}

// cells returns pointers to every cell of the record, in column order.
func (r *Record) cells() []*Cell {
	v := reflect.ValueOf(r).Elem()
	out := make([]*Cell, v.NumField())
	for i := range out {
		out[i] = v.Field(i).Addr().Interface().(*Cell)
	}
	return out
}
