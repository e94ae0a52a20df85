package importer

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finfeed-dev/finfeed/internal/dates"
	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// PositionsImporter decodes Fidelity position snapshot exports
// (Portfolio_Positions_Mmm-DD-YYYY.csv). One document can yield
// holdings, accounts, securities, or source metadata; the caller
// picks the record kind per decode call.
type PositionsImporter struct{}

const positionsHeaderCols = `Account Number,Account Name,Symbol,Description,Quantity,`

// tickerCutset holds decoration characters trimmed from tickers.
const tickerCutset = "*"

// pendingActivity is the placeholder the vendor uses for unresolved
// pending transactions; such rows carry no decodable position.
const pendingActivity = "Pending Activity"

var (
	positionsHeaderRE = regexp.MustCompile(positionsHeaderCols +
		`Last Price,Last Price Change,Current Value,` +
		`Today's Gain/Loss Dollar,Today's Gain/Loss Percent,` +
		`Total Gain/Loss Dollar,Total Gain/Loss Percent,` +
		`Percent Of Account,Cost Basis Total,Average Cost Basis,Type`)

	positionsBlockRE = csvBlockPattern(positionsHeaderCols)

	// The export stamps its download time in a quoted banner line
	// below the table.
	downloadedAtRE = regexp.MustCompile(`"Date downloaded ([^"]+)"`)
)

// ID implements Importer.
func (imp *PositionsImporter) ID() string { return "fidelity_positions" }

// Name implements Importer.
func (imp *PositionsImporter) Name() string { return "Fidelity Positions" }

// Description implements Importer.
func (imp *PositionsImporter) Description() string {
	return "Detect and decode position export files from Fidelity."
}

// SourceFormats implements Importer.
func (imp *PositionsImporter) SourceFormats() []model.Format {
	return []model.Format{model.FormatCSV}
}

// RecordKinds implements Importer.
func (imp *PositionsImporter) RecordKinds() []model.RecordKind {
	return []model.RecordKind{model.KindSourceMeta, model.KindAccount, model.KindHolding, model.KindSecurity}
}

// Detect implements Importer.
func (imp *PositionsImporter) Detect(prefix []byte) DetectResult {
	text, err := table.Normalize(prefix)
	if err != nil || !positionsHeaderRE.MatchString(text) {
		return nil
	}
	return detectAll(imp.RecordKinds())
}

// Decode implements Importer.
func (imp *PositionsImporter) Decode(data []byte, opts Options) ([]model.Record, []table.RawRow, error) {
	text, err := table.Normalize(data)
	if err != nil {
		return nil, nil, err
	}

	if opts.Kind == "" {
		return nil, nil, fmt.Errorf("%w: one of %v", ErrRecordKindRequired, imp.RecordKinds())
	}

	if opts.Kind == model.KindSourceMeta {
		return []model.Record{imp.sourceMeta(text, opts)}, nil, nil
	}

	block := extractBlock(text, positionsBlockRE)
	if block == "" {
		return nil, nil, nil
	}

	rows, err := table.ReadNamed(block)
	if err != nil {
		return nil, nil, fmt.Errorf("positions table: %w", err)
	}

	var records []model.Record
	var rejected []table.RawRow
	for _, row := range rows {
		var rec model.Record
		var ok bool
		switch opts.Kind {
		case model.KindHolding:
			rec, ok = imp.holding(row)
		case model.KindSecurity:
			rec, ok = imp.security(row, opts)
		case model.KindAccount:
			rec, ok = imp.account(row)
		default:
			return nil, nil, fmt.Errorf("%w: %q not offered by %s", ErrRecordKindRequired, opts.Kind, imp.ID())
		}
		if !ok {
			rejected = append(rejected, row)
			continue
		}
		records = append(records, rec)
	}
	return records, rejected, nil
}

// sourceMeta builds the single provenance record for a document.
// Exactly one per decode, regardless of row count; a missing or
// unparsable banner just leaves the export time absent.
func (imp *PositionsImporter) sourceMeta(text string, opts Options) *model.SourceMeta {
	meta := &model.SourceMeta{
		SourceMetaID: uuid.NewString(),
		URL:          opts.URL,
		ImporterID:   imp.ID(),
	}
	if m := downloadedAtRE.FindStringSubmatch(text); m != nil {
		if exportedAt, ok := dates.ResolveZoned(m[1]); ok {
			meta.ExportedAt = &exportedAt
		}
	}
	return meta
}

func (imp *PositionsImporter) holding(row table.RawRow) (*model.Holding, bool) {
	accountID, ok := row.String("Account Number")
	if !ok {
		return nil, false
	}
	securityID, ok := row.Trimmed("Symbol", tickerCutset)
	if !ok || securityID == pendingActivity {
		return nil, false
	}
	quantity := row.Decimal("Quantity")
	// A present-but-zero quantity carries no information; it only
	// arises from transient data artifacts.
	if quantity == nil || quantity.IsZero() {
		return nil, false
	}

	h := &model.Holding{
		AccountID:  accountID,
		SecurityID: securityID,
		ShareCount: *quantity,
	}

	shareBasis := row.Decimal("Average Cost Basis")
	if (shareBasis == nil || shareBasis.IsZero()) && row["Average Cost Basis"] == "n/a" {
		if lastPrice := row.Decimal("Last Price"); lastPrice != nil && lastPrice.Equal(decimal.NewFromInt(1)) {
			// A last price of exactly 1.00 means cash, where the
			// basis is 1.00 as well.
			one := decimal.NewFromInt(1)
			shareBasis = &one
		} else if costBasis := row.Decimal("Cost Basis Total"); costBasis != nil && costBasis.IsPositive() {
			// Reconstruct the per-share basis from the total.
			basis := costBasis.Div(*quantity)
			shareBasis = &basis
		}
	}
	if shareBasis != nil {
		h.ShareBasis = shareBasis
	}

	return h, true
}

func (imp *PositionsImporter) security(row table.RawRow, opts Options) (*model.Security, bool) {
	securityID, ok := row.Trimmed("Symbol", tickerCutset)
	if !ok || securityID == pendingActivity {
		return nil, false
	}
	sharePrice := row.Decimal("Last Price")
	if sharePrice == nil {
		return nil, false
	}

	s := &model.Security{
		SecurityID: securityID,
		SharePrice: *sharePrice,
	}
	if opts.AsOf != nil {
		s.UpdatedAt = opts.AsOf
	}
	return s, true
}

func (imp *PositionsImporter) account(row table.RawRow) (*model.Account, bool) {
	accountID, ok := row.String("Account Number")
	if !ok {
		return nil, false
	}
	title, ok := row.String("Account Name")
	if !ok {
		return nil, false
	}
	return &model.Account{AccountID: accountID, Title: title}, true
}
