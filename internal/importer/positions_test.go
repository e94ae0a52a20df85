package importer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finfeed-dev/finfeed/internal/model"
	"github.com/finfeed-dev/finfeed/internal/table"
)

const positionsHeader = "Account Number,Account Name,Symbol,Description,Quantity,Last Price,Last Price Change,Current Value,Today's Gain/Loss Dollar,Today's Gain/Loss Percent,Total Gain/Loss Dollar,Total Gain/Loss Percent,Percent Of Account,Cost Basis Total,Average Cost Basis,Type"

func readPositionsTestdata(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/portfolio_positions.csv")
	require.NoError(t, err)
	return data
}

func TestPositionsRecordKinds(t *testing.T) {
	imp := &PositionsImporter{}
	assert.Equal(t, []model.Format{model.FormatCSV}, imp.SourceFormats())
	assert.Equal(t,
		[]model.RecordKind{model.KindSourceMeta, model.KindAccount, model.KindHolding, model.KindSecurity},
		imp.RecordKinds())
}

func TestPositionsDetect(t *testing.T) {
	imp := &PositionsImporter{}

	res := imp.Detect([]byte(positionsHeader))
	expected := DetectResult{
		model.KindSourceMeta: {model.FormatCSV},
		model.KindAccount:    {model.FormatCSV},
		model.KindHolding:    {model.FormatCSV},
		model.KindSecurity:   {model.FormatCSV},
	}
	assert.Equal(t, expected, res)

	// A BOM ahead of the header must not defeat detection.
	res = imp.Detect([]byte("\ufeff" + positionsHeader))
	assert.Equal(t, expected, res)
}

func TestPositionsDetectHeaderMismatch(t *testing.T) {
	imp := &PositionsImporter{}
	mutated := strings.Replace(positionsHeader, "Symbol", "Symbal", 1)
	assert.Empty(t, imp.Detect([]byte(mutated)))
}

func TestPositionsKindRequired(t *testing.T) {
	imp := &PositionsImporter{}
	_, _, err := imp.Decode(readPositionsTestdata(t), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordKindRequired)
}

func TestPositionsUnsupportedKind(t *testing.T) {
	imp := &PositionsImporter{}
	_, _, err := imp.Decode(readPositionsTestdata(t), Options{Kind: model.KindTransaction})
	assert.Error(t, err)
}

func TestPositionsHoldings(t *testing.T) {
	imp := &PositionsImporter{}
	records, rejected, err := imp.Decode(readPositionsTestdata(t), Options{Kind: model.KindHolding})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, records, 2)

	first := records[0].(*model.Holding)
	assert.Equal(t, "Z00000000", first.AccountID)
	assert.Equal(t, "VWO", first.SecurityID)
	assert.Equal(t, "900", first.ShareCount.String())
	require.NotNil(t, first.ShareBasis)
	assert.Equal(t, "28.96", first.ShareBasis.String())

	second := records[1].(*model.Holding)
	assert.Equal(t, "Z00000001", second.AccountID)
	assert.Equal(t, "VOO", second.SecurityID)
	assert.Equal(t, "800", second.ShareCount.String())
	require.NotNil(t, second.ShareBasis)
	assert.Equal(t, "18.96", second.ShareBasis.String())
}

func TestPositionsSecurities(t *testing.T) {
	imp := &PositionsImporter{}
	asOf := time.Date(2021, 7, 30, 20, 0, 0, 0, time.UTC)

	records, rejected, err := imp.Decode(readPositionsTestdata(t), Options{
		Kind: model.KindSecurity,
		AsOf: &asOf,
	})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, records, 2)

	first := records[0].(*model.Security)
	assert.Equal(t, "VWO", first.SecurityID)
	assert.Equal(t, "50.922", first.SharePrice.String())
	require.NotNil(t, first.UpdatedAt)
	assert.True(t, first.UpdatedAt.Equal(asOf))

	second := records[1].(*model.Security)
	assert.Equal(t, "VOO", second.SecurityID)
	assert.Equal(t, "40.922", second.SharePrice.String())
}

func TestPositionsSecuritiesWithoutAsOf(t *testing.T) {
	imp := &PositionsImporter{}
	records, _, err := imp.Decode(readPositionsTestdata(t), Options{Kind: model.KindSecurity})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].(*model.Security).UpdatedAt)
}

func TestPositionsAccounts(t *testing.T) {
	imp := &PositionsImporter{}
	records, rejected, err := imp.Decode(readPositionsTestdata(t), Options{Kind: model.KindAccount})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, records, 2)

	assert.Equal(t, &model.Account{AccountID: "Z00000000", Title: "AAAA"}, records[0])
	assert.Equal(t, &model.Account{AccountID: "Z00000001", Title: "BBBB"}, records[1])
}

func TestPositionsSourceMeta(t *testing.T) {
	imp := &PositionsImporter{}
	records, rejected, err := imp.Decode(readPositionsTestdata(t), Options{
		Kind: model.KindSourceMeta,
		URL:  "http://blah.com",
	})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, records, 1)

	meta := records[0].(*model.SourceMeta)
	assert.NotEmpty(t, meta.SourceMetaID)
	assert.Equal(t, "http://blah.com", meta.URL)
	assert.Equal(t, "fidelity_positions", meta.ImporterID)
	require.NotNil(t, meta.ExportedAt)
	assert.Equal(t, "2021-07-30T18:26:00Z", utcString(*meta.ExportedAt))
}

func TestPositionsSourceMetaIDsAreUnique(t *testing.T) {
	imp := &PositionsImporter{}
	data := readPositionsTestdata(t)

	a, _, err := imp.Decode(data, Options{Kind: model.KindSourceMeta})
	require.NoError(t, err)
	b, _, err := imp.Decode(data, Options{Kind: model.KindSourceMeta})
	require.NoError(t, err)

	assert.NotEqual(t,
		a[0].(*model.SourceMeta).SourceMetaID,
		b[0].(*model.SourceMeta).SourceMetaID)
}

func TestPositionsSourceMetaMissingBanner(t *testing.T) {
	imp := &PositionsImporter{}
	doc := []byte(positionsHeader + "\nZ00000000,AAAA,VWO,desc,900,$50.922,,,,,,,,,,\n")

	records, _, err := imp.Decode(doc, Options{Kind: model.KindSourceMeta})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].(*model.SourceMeta).ExportedAt)
}

func TestHoldingCashShareBasisSetToLastPrice(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number":     "1",
		"Symbol":             "SPAXX",
		"Last Price":         "1.00",
		"Quantity":           "1",
		"Average Cost Basis": "n/a",
	}

	h, ok := imp.holding(row)
	require.True(t, ok)
	require.NotNil(t, h.ShareBasis)
	assert.Equal(t, "1", h.ShareBasis.String())
}

func TestHoldingShareBasisReconstructedFromTotal(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number":     "1",
		"Symbol":             "ABCXY",
		"Last Price":         "$16.5587",
		"Quantity":           "3333.821",
		"Average Cost Basis": "n/a",
		"Cost Basis Total":   "$48323.69",
	}

	h, ok := imp.holding(row)
	require.True(t, ok)
	require.NotNil(t, h.ShareBasis)
	basis, _ := h.ShareBasis.Float64()
	assert.InDelta(t, 14.49, basis, 0.01)
}

func TestHoldingShareBasisAbsent(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number":     "1",
		"Symbol":             "ABCXY",
		"Last Price":         "$16.5587",
		"Quantity":           "10",
		"Average Cost Basis": "n/a",
	}

	h, ok := imp.holding(row)
	require.True(t, ok)
	assert.Nil(t, h.ShareBasis)
}

func TestHoldingTickerTrimmed(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number": "1",
		"Symbol":         "SPAXX**",
		"Quantity":       "10",
	}

	h, ok := imp.holding(row)
	require.True(t, ok)
	assert.Equal(t, "SPAXX", h.SecurityID)
}

func TestHoldingZeroQuantityRejected(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number":     "1",
		"Symbol":             "VTI",
		"Last Price":         "$100.00",
		"Quantity":           "0",
		"Average Cost Basis": "$50.00",
	}

	_, ok := imp.holding(row)
	assert.False(t, ok)
}

func TestHoldingPendingActivityRejected(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{
		"Account Number": "1",
		"Symbol":         "Pending Activity",
		"Quantity":       "10",
	}

	_, ok := imp.holding(row)
	assert.False(t, ok)
}

func TestSecurityRequiresLastPrice(t *testing.T) {
	imp := &PositionsImporter{}
	row := table.RawRow{"Symbol": "VTI"}

	_, ok := imp.security(row, Options{})
	assert.False(t, ok)
}
