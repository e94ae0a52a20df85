package table

import (
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RawRow maps a column name from the table header to the raw string
// value on one line. Columns past the end of a short line are absent.
type RawRow map[string]string

// Normalize decodes raw export bytes into text. Exports are usually
// UTF-8 (sometimes with a BOM); older ones arrive as Windows-1252.
func Normalize(data []byte) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding source text: %w", err)
	}
	return string(decoded), nil
}

// ReadNamed tokenizes delimited text whose first line is a header and
// returns one RawRow per data line, in source order. Lines may carry
// fewer or more fields than the header; extras are dropped.
func ReadNamed(text string) ([]RawRow, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading delimited text: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	header := records[0]
	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(RawRow, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
