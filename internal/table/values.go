package table

import (
	"strings"

	"github.com/shopspring/decimal"
)

// decoration characters stripped from numeric values before parsing:
// currency symbol, thousands separators, percent signs, and the
// explicit plus sign vendors put on gains.
const numericNoise = "$,%+ "

// String returns the trimmed value of col. The second return is
// false when the column is absent or blank.
func (r RawRow) String(col string) (string, bool) {
	s := strings.TrimSpace(r[col])
	return s, s != ""
}

// Trimmed returns the value of col with surrounding whitespace and
// any characters in cutset removed.
func (r RawRow) Trimmed(col, cutset string) (string, bool) {
	s, ok := r.String(col)
	if !ok {
		return "", false
	}
	s = strings.Trim(s, cutset)
	return s, s != ""
}

// Decimal parses col as a decimal number, tolerating the usual
// vendor decoration ("$12.00 ", "+31.10%", "$45,900.35"). It returns
// nil when the column is absent, blank, or not numeric.
func (r RawRow) Decimal(col string) *decimal.Decimal {
	s, ok := r.String(col)
	if !ok {
		return nil
	}
	cleaned := strings.Map(func(c rune) rune {
		if strings.ContainsRune(numericNoise, c) {
			return -1
		}
		return c
	}, s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}
