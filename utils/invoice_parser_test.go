package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/liquorops/invoice-parser/dto"
)

func testCatalog() []dto.MasterBrandRecord {
	return []dto.MasterBrandRecord{
		{
			ID:           "mb-5016-650",
			BrandNumber:  "5016",
			Name:         "KING FISHER PREMIUM LAGER BEER",
			SizeML:       650,
			SizeCode:     "BL",
			PackQuantity: 12,
			PackType:     "G",
			MRP:          decimal.NewFromInt(150),
			Category:     "Beer",
		},
	}
}

func TestParseInvoiceEndToEnd(t *testing.T) {
	text := `
		RETAIL INVOICE
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0
		Invoice Value: 24,13,858.92
		TCS: 15,162.00
	`

	result := ParseInvoice(text, testCatalog())

	assert.True(t, result.Success)
	assert.Equal(t, parseConfidence, result.Confidence)
	assert.Len(t, result.Items, 1)
	assert.Empty(t, result.Skipped)

	item := result.Items[0]
	assert.Equal(t, "5016", item.BrandNumber)
	assert.Equal(t, 1200, item.TotalQuantity)
	assert.Equal(t, "mb-5016-650", item.MasterBrandID)
	assert.Equal(t, "650ml", item.FormattedSize)
	assert.Equal(t, "high", item.MatchConfidence)
	assert.True(t, item.MRP.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, 1, result.Summary.ParsedCount)
	assert.Equal(t, 1, result.Summary.ValidatedCount)
	assert.Equal(t, 0, result.Summary.SkippedCount)
	assert.Equal(t, 1.0, result.Summary.MatchRate)

	assert.Equal(t, "2413858.92", result.Financials.InvoiceValue.String())
	assert.Equal(t, "15162", result.Financials.TCS.String())
}

func TestParseInvoiceNoCandidates(t *testing.T) {
	result := ParseInvoice("completely unrelated text\nwith no product lines", nil)

	assert.False(t, result.Success)
	assert.Equal(t, 0.0, result.Confidence)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Items)
}

func TestParseInvoiceUnmatchedCandidateIsSkipped(t *testing.T) {
	// Brand 9999 is not in the catalog: the parse still succeeds and the
	// item lands in skipped with a reason naming the brand.
	text := `1 9999 (12) UNKNOWN LOCAL BRAND IML G 12 / 750 ml 10 0`

	result := ParseInvoice(text, testCatalog())

	assert.True(t, result.Success)
	assert.Empty(t, result.Items)
	assert.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "9999")
	assert.NotEmpty(t, result.Skipped[0].Suggestion)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, 0.0, result.Summary.MatchRate)
}

func TestParseInvoiceDedupInvariant(t *testing.T) {
	text := `
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0
		15016(12)KING FISHER PREMIUM LAGER BEERBeerG12/650ml1000
		2 1111 ROYAL CHALLENGE WHISKY IML G 48 / 180 ml 25 12
	`

	result := ParseInvoice(text, testCatalog())

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Summary.ParsedCount)

	seen := make(map[string]bool)
	for _, item := range result.Items {
		key := item.BrandNumber + "|" + item.Size
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
	for _, item := range result.Skipped {
		key := item.BrandNumber + "|" + item.Size
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestParseInvoiceIdempotent(t *testing.T) {
	text := `
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0
		2 1111 ROYAL CHALLENGE WHISKY IML G 48 / 180 ml 25 12
		Invoice Value: 24,13,858.92
	`

	first := ParseInvoice(text, testCatalog())
	second := ParseInvoice(text, testCatalog())

	assert.Equal(t, first, second)
}
