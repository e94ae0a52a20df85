package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// WriteRecords writes decoded records as JSON Lines, one record per
// line, preserving decode order. The JSON field names are the
// downstream schema's canonical names, carried on the record types.
func WriteRecords(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}

// WriteRejects writes rejected raw rows as JSON Lines for
// diagnostics, preserving decode order.
func WriteRejects(w io.Writer, rows []table.RawRow) error {
	enc := json.NewEncoder(w)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("writing rejected row %d: %w", i, err)
		}
	}
	return nil
}
