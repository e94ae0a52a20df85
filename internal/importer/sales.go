package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// SalesImporter decodes Fidelity realized gain/loss exports
// (Realized_Gain_Loss_Account_XXXXXXXX.csv, the "Closed Positions"
// report of taxable accounts). Every row is a realized sale. The
// account ID is not a column; it is recovered from the document's
// own file name or URL.
type SalesImporter struct{}

var (
	salesHeaderRE = regexp.MustCompile(`Symbol\(CUSIP\),Security Description,Quantity,` +
		`Date Acquired,Date Sold,Proceeds,Cost Basis,` +
		`Short Term Gain/Loss,Long Term Gain/Loss`)

	// The alphanumeric token just before the extension dot, e.g.
	// X12345678 out of Realized_Gain_Loss_Account_X12345678.csv.
	salesAccountIDRE = regexp.MustCompile(`([A-Za-z0-9]+)\.`)
)

// ID implements Importer.
func (imp *SalesImporter) ID() string { return "fidelity_sales" }

// Name implements Importer.
func (imp *SalesImporter) Name() string { return "Fidelity Sales" }

// Description implements Importer.
func (imp *SalesImporter) Description() string {
	return "Detect and decode realized sale export files from Fidelity."
}

// SourceFormats implements Importer.
func (imp *SalesImporter) SourceFormats() []model.Format {
	return []model.Format{model.FormatCSV}
}

// RecordKinds implements Importer.
func (imp *SalesImporter) RecordKinds() []model.RecordKind {
	return []model.RecordKind{model.KindTransaction}
}

// Detect implements Importer.
func (imp *SalesImporter) Detect(prefix []byte) DetectResult {
	text, err := table.Normalize(prefix)
	if err != nil || !salesHeaderRE.MatchString(text) {
		return nil
	}
	return detectAll(imp.RecordKinds())
}

// Decode implements Importer. Unlike the other dialects this export
// is a flat CSV, so the whole document is tokenized directly.
func (imp *SalesImporter) Decode(data []byte, opts Options) ([]model.Record, []table.RawRow, error) {
	text, err := table.Normalize(data)
	if err != nil {
		return nil, nil, err
	}

	// A document without a usable identifier still decodes; the
	// financial fields stand on their own, so the account ID falls
	// back to empty rather than rejecting every row.
	var accountID string
	if m := salesAccountIDRE.FindStringSubmatch(opts.URL); m != nil {
		accountID = m[1]
	}

	rows, err := table.ReadNamed(text)
	if err != nil {
		return nil, nil, fmt.Errorf("sales table: %w", err)
	}

	var records []model.Record
	var rejected []table.RawRow
	for _, row := range rows {
		txn, ok := imp.decodeRow(row, accountID, opts)
		if !ok {
			rejected = append(rejected, row)
			continue
		}
		records = append(records, txn)
	}
	return records, rejected, nil
}

func (imp *SalesImporter) decodeRow(row table.RawRow, accountID string, opts Options) (*model.Transaction, bool) {
	// The ticker is the prefix of the "TICKER(CUSIP)" composite.
	composite, ok := row.String("Symbol(CUSIP)")
	if !ok {
		return nil, false
	}
	symbol, _, _ := strings.Cut(composite, "(")
	if symbol == "" {
		return nil, false
	}
	quantity := row.Decimal("Quantity")
	proceeds := row.Decimal("Proceeds")
	if quantity == nil || proceeds == nil {
		return nil, false
	}
	dateSold, ok := row.String("Date Sold")
	if !ok {
		return nil, false
	}
	transactedAt, ok := resolveRowDate(dateSold, opts)
	if !ok {
		return nil, false
	}

	txn := &model.Transaction{
		Action:            model.ActionBuySell,
		TransactedAt:      transactedAt,
		AccountID:         accountID,
		SecurityID:        symbol,
		RealizedGainShort: row.Decimal("Short Term Gain/Loss"),
		RealizedGainLong:  row.Decimal("Long Term Gain/Loss"),
	}

	// The export reports sales as positive magnitudes; flip the sign
	// since a sale reduces the position.
	txn.ShareCount = quantity.Neg()

	// Never divide by zero: a zero-quantity row keeps its price absent.
	if !quantity.IsZero() {
		price := proceeds.Div(*quantity)
		txn.SharePrice = &price
	}

	return txn, true
}
