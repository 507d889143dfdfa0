// Package source reads TSE vote-count exports into memory and normalizes
// their "no data" sentinels.
//
// Exports are ISO-8859-1 encoded (UTF-8 is accepted when the file starts
// with a byte order mark), ';' separated, with a header row whose
// names must include every column in [Columns]. Rows are mapped onto
// [Record] with gocsv.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/tseload/pkg/tseload"
	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
)

// Delimiter is the field separator used by TSE exports.
const Delimiter = ';'

// Table is an in-memory export: the header as found in the file and one
// Record per data row, in file order.
type Table struct {
	Header  []string
	Records []*Record
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// Read opens the file at path and decodes it.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open source file: %w", tseload.ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a whole export from r.
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(textReader(r))
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	// FieldsPerRecord stays 0: every row must match the header width.

	hr := &headerCapture{Reader: cr}

	var records []*Record
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		return nil, classifyDecodeError(err)
	}

	if missing := missingColumns(hr.header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required column(s): %s",
			tseload.ErrParse, strings.Join(missing, ", "))
	}

	return &Table{Header: hr.header, Records: records}, nil
}

// utf8BOM marks an export re-saved as UTF-8 by a spreadsheet tool.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textReader decodes r as ISO-8859-1, unless it starts with a UTF-8 byte
// order mark, in which case the mark is dropped and the bytes pass through.
func textReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br
	}
	return charmap.ISO8859_1.NewDecoder().Reader(br)
}

// headerCapture remembers the header row gocsv consumes.
type headerCapture struct {
	*csv.Reader
	header []string
}

func (h *headerCapture) ReadAll() ([][]string, error) {
	rows, err := h.Reader.ReadAll()
	if len(rows) > 0 {
		h.header = rows[0]
	}
	return rows, err
}

func classifyDecodeError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: invalid csv: %w", tseload.ErrParse, err)
	}
	// Reader failures surface unwrapped from the decoder.
	var pathErr *os.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read source: %w", tseload.ErrIO, err)
	}
	return fmt.Errorf("%w: %w", tseload.ErrParse, err)
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range Columns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
