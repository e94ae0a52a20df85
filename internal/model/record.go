package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind identifies one canonical record type produced by an importer.
type RecordKind string

const (
	KindTransaction RecordKind = "transaction"
	KindHolding     RecordKind = "holding"
	KindAccount     RecordKind = "account"
	KindSecurity    RecordKind = "security"
	KindSourceMeta  RecordKind = "sourcemeta"
)

// Format identifies a source document format an importer can consume.
type Format string

const FormatCSV Format = "csv"

// Record is one canonical typed record. The JSON tags on each
// implementation are the field names of the downstream schema and
// must not drift.
type Record interface {
	Kind() RecordKind
}

// Transaction is a single brokerage cash or security movement.
type Transaction struct {
	Action            Action           `json:"txnAction"`
	TransactedAt      time.Time        `json:"txnTransactedAt"`
	AccountID         string           `json:"txnAccountID"`
	SecurityID        string           `json:"txnSecurityID,omitempty"`
	LotID             string           `json:"txnLotID,omitempty"`
	ShareCount        decimal.Decimal  `json:"txnShareCount"`
	SharePrice        *decimal.Decimal `json:"txnSharePrice,omitempty"`
	RealizedGainShort *decimal.Decimal `json:"realizedGainShort,omitempty"`
	RealizedGainLong  *decimal.Decimal `json:"realizedGainLong,omitempty"`
}

// Kind implements Record.
func (Transaction) Kind() RecordKind { return KindTransaction }

// Holding is one position in one account.
type Holding struct {
	AccountID  string           `json:"holdingAccountID"`
	SecurityID string           `json:"holdingSecurityID"`
	ShareCount decimal.Decimal  `json:"shareCount"`
	ShareBasis *decimal.Decimal `json:"shareBasis,omitempty"`
}

// Kind implements Record.
func (Holding) Kind() RecordKind { return KindHolding }

// Account is a brokerage account and its display title.
type Account struct {
	AccountID string `json:"accountID"`
	Title     string `json:"title"`
}

// Kind implements Record.
func (Account) Kind() RecordKind { return KindAccount }

// Security is a priced instrument observed in an export.
type Security struct {
	SecurityID string          `json:"securityID"`
	SharePrice decimal.Decimal `json:"sharePrice"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

// Kind implements Record.
func (Security) Kind() RecordKind { return KindSecurity }

// SourceMeta describes the provenance of one decoded document.
// Exactly one is produced per document, regardless of row count.
type SourceMeta struct {
	SourceMetaID string     `json:"sourceMetaID"`
	URL          string     `json:"url,omitempty"`
	ImporterID   string     `json:"importerID"`
	ExportedAt   *time.Time `json:"exportedAt,omitempty"`
}

// Kind implements Record.
func (SourceMeta) Kind() RecordKind { return KindSourceMeta }
