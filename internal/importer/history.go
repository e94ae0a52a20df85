package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

// HistoryImporter decodes Fidelity account-history exports
// (Accounts_History.csv) into transaction records.
type HistoryImporter struct{}

const historyHeaderCols = `Run Date,Account,Action,Symbol,Security Description,Security Type,Quantity,`

var (
	historyHeaderRE = regexp.MustCompile(`Brokerage\r?\n\r?\n` +
		historyHeaderCols +
		`Price \(\$\),Commission \(\$\),Fees \(\$\),Accrued Interest \(\$\),Amount \(\$\),Settlement Date`)

	historyBlockRE = csvBlockPattern(historyHeaderCols)
)

// historyActions maps the vendor's free-text action phrasing to the
// canonical taxonomy. Evaluated in order, first match wins: order is
// load-bearing where one phrase is a prefix of a broader category.
// Anything unmatched is a miscellaneous cash flow.
var historyActions = []struct {
	prefix string
	action model.Action
}{
	{"YOU BOUGHT ", model.ActionBuySell},
	{"PURCHASE INTO ", model.ActionBuySell},
	{"YOU SOLD ", model.ActionBuySell},
	{"REDEMPTION FROM ", model.ActionBuySell},
	{"REINVESTMENT ", model.ActionBuySell},
	{"TRANSFER OF ASSETS ", model.ActionTransfer},
	{"DIVIDEND RECEIVED ", model.ActionIncome},
	{"LONG-TERM CAP GAIN ", model.ActionIncome},
	{"SHORT-TERM CAP GAIN ", model.ActionIncome},
	{"INTEREST EARNED ", model.ActionIncome},
}

// classifyAction assigns the canonical Action for a raw action
// description. Total: every description maps to exactly one tag.
func classifyAction(desc string) model.Action {
	for _, entry := range historyActions {
		if strings.HasPrefix(desc, entry.prefix) {
			return entry.action
		}
	}
	return model.ActionMiscFlow
}

// ID implements Importer.
func (imp *HistoryImporter) ID() string { return "fidelity_history" }

// Name implements Importer.
func (imp *HistoryImporter) Name() string { return "Fidelity History" }

// Description implements Importer.
func (imp *HistoryImporter) Description() string {
	return "Detect and decode account history export files from Fidelity, for sale and purchase info."
}

// SourceFormats implements Importer.
func (imp *HistoryImporter) SourceFormats() []model.Format {
	return []model.Format{model.FormatCSV}
}

// RecordKinds implements Importer.
func (imp *HistoryImporter) RecordKinds() []model.RecordKind {
	return []model.RecordKind{model.KindTransaction}
}

// Detect implements Importer.
func (imp *HistoryImporter) Detect(prefix []byte) DetectResult {
	text, err := table.Normalize(prefix)
	if err != nil || !historyHeaderRE.MatchString(text) {
		return nil
	}
	return detectAll(imp.RecordKinds())
}

// Decode implements Importer.
func (imp *HistoryImporter) Decode(data []byte, opts Options) ([]model.Record, []table.RawRow, error) {
	text, err := table.Normalize(data)
	if err != nil {
		return nil, nil, err
	}

	block := extractBlock(text, historyBlockRE)
	if block == "" {
		return nil, nil, nil
	}

	rows, err := table.ReadNamed(block)
	if err != nil {
		return nil, nil, fmt.Errorf("history table: %w", err)
	}

	var records []model.Record
	var rejected []table.RawRow
	for _, row := range rows {
		txn, ok := imp.decodeRow(row, opts)
		if !ok {
			rejected = append(rejected, row)
			continue
		}
		records = append(records, txn)
	}
	return records, rejected, nil
}

// decodeRow turns one raw history line into a transaction. A false
// return means a required field was missing and the row must be
// rejected.
func (imp *HistoryImporter) decodeRow(row table.RawRow, opts Options) (*model.Transaction, bool) {
	action, ok := row.String("Action")
	if !ok {
		return nil, false
	}
	rawDate, ok := row.String("Run Date")
	if !ok {
		return nil, false
	}
	transactedAt, ok := resolveRowDate(rawDate, opts)
	if !ok {
		return nil, false
	}
	// The account descriptor is a display name with the account ID
	// as its last whitespace-delimited token.
	descriptor, ok := row.String("Account")
	if !ok {
		return nil, false
	}
	parts := strings.Fields(descriptor)
	if len(parts) == 0 {
		return nil, false
	}
	accountID := parts[len(parts)-1]

	txn := &model.Transaction{
		Action:       classifyAction(action),
		TransactedAt: transactedAt,
		AccountID:    accountID,
	}

	symbol, hasSymbol := row.String("Symbol")
	quantity := row.Decimal("Quantity")
	price := row.Decimal("Price ($)")
	amount := row.Decimal("Amount ($)")

	switch txn.Action {
	case model.ActionBuySell:
		if !hasSymbol || quantity == nil || price == nil {
			return nil, false
		}
		txn.SecurityID = symbol
		txn.ShareCount = *quantity
		txn.SharePrice = price

	case model.ActionTransfer:
		if hasSymbol {
			// Security transfers may arrive without a price.
			if quantity == nil || quantity.IsZero() {
				return nil, false
			}
			txn.SecurityID = symbol
			txn.ShareCount = *quantity
			txn.SharePrice = price
		} else {
			// No symbol: a cash movement, recorded as amount shares
			// at a price of 1.
			if amount == nil {
				return nil, false
			}
			txn.ShareCount = *amount
			txn.SharePrice = unitPrice()
		}

	default: // income, miscflow
		if amount == nil {
			return nil, false
		}
		txn.ShareCount = *amount
		txn.SharePrice = unitPrice()
		if hasSymbol {
			txn.SecurityID = symbol
		}
	}

	return txn, true
}

// unitPrice returns a fresh 1.0 share price for cash-like rows.
func unitPrice() *decimal.Decimal {
	one := decimal.NewFromInt(1)
	return &one
}
