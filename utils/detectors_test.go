package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liquorops/invoice-parser/dto"
)

func runDetectors(text string) []dto.CandidateProduct {
	lines := NormalizeLines(text)
	state := newParseState()
	for _, detect := range formatDetectors {
		detect(lines, state)
	}
	sortCandidates(state.candidates)
	return state.candidates
}

func TestDetectTableFormat(t *testing.T) {
	text := `
		RETAIL INVOICE
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0
		2 1111 ROYAL CHALLENGE WHISKY IML G 48 / 180 ml 25 12
		TIN NO: 36100106581
	`

	products := runDetectors(text)

	assert.Len(t, products, 2)

	assert.Equal(t, "5016", products[0].BrandNumber)
	assert.Equal(t, "KING FISHER PREMIUM LAGER BEER", products[0].Description)
	assert.Equal(t, "650ml", products[0].Size)
	assert.Equal(t, 100, products[0].Cases)
	assert.Equal(t, 0, products[0].Bottles)
	assert.Equal(t, 1200, products[0].TotalQuantity)
	assert.Equal(t, dto.ProductTypeBeer, products[0].ProductType)
	assert.Equal(t, dto.PackTypeGlass, products[0].PackType)
	assert.Equal(t, 1, products[0].Serial)

	assert.Equal(t, "1111", products[1].BrandNumber)
	assert.Equal(t, "ROYAL CHALLENGE WHISKY", products[1].Description)
	assert.Equal(t, "180ml", products[1].Size)
	assert.Equal(t, 25, products[1].Cases)
	assert.Equal(t, 12, products[1].Bottles)
	assert.Equal(t, 1212, products[1].TotalQuantity)
	assert.Equal(t, dto.ProductTypeIML, products[1].ProductType)
}

func TestDetectTableFormatIgnoresZeroCases(t *testing.T) {
	text := `1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 0 0`

	products := runDetectors(text)

	assert.Empty(t, products)
}

func TestDetectCompactFormat(t *testing.T) {
	text := `
		15016(12)KING FISHER PREMIUM LAGER BEERBeerG12/650ml1000
		21111(48)ROYAL CHALLENGE WHISKYIMLG48/180ml2512
	`

	products := runDetectors(text)

	assert.Len(t, products, 2)

	assert.Equal(t, "5016", products[0].BrandNumber)
	assert.Equal(t, "KING FISHER PREMIUM LAGER BEER", products[0].Description)
	assert.Equal(t, 100, products[0].Cases)
	assert.Equal(t, 0, products[0].Bottles)
	assert.Equal(t, 1200, products[0].TotalQuantity)
	assert.Equal(t, 1, products[0].Serial)

	assert.Equal(t, "1111", products[1].BrandNumber)
	assert.Equal(t, 25, products[1].Cases)
	assert.Equal(t, 12, products[1].Bottles)
	assert.Equal(t, 1212, products[1].TotalQuantity)
	assert.Equal(t, 2, products[1].Serial)
}

func TestDetectVerticalFormat(t *testing.T) {
	text := `
		Particulars
		15016 (12)
		KING FISHER
		PREMIUM LAGER BEER
		Beer G 12 / 650 ml 1000
		TIN NO: 36100106581
	`

	products := runDetectors(text)

	assert.Len(t, products, 1)
	assert.Equal(t, "5016", products[0].BrandNumber)
	assert.Equal(t, "KING FISHER PREMIUM LAGER BEER", products[0].Description)
	assert.Equal(t, "650ml", products[0].Size)
	assert.Equal(t, 12, products[0].PackQty)
	assert.Equal(t, 100, products[0].Cases)
	assert.Equal(t, 0, products[0].Bottles)
	assert.Equal(t, 1200, products[0].TotalQuantity)
	assert.Equal(t, 1, products[0].Serial)
}

func TestDetectStandaloneFormat(t *testing.T) {
	text := `
		15016
		KING FISHER PREMIUM LAGER BEER
		Beer G 12 / 650 ml 1000
	`

	products := runDetectors(text)

	assert.Len(t, products, 1)
	assert.Equal(t, "5016", products[0].BrandNumber)
	// pack quantity recovered from the detail line, not the header
	assert.Equal(t, 12, products[0].PackQty)
	assert.Equal(t, 1200, products[0].TotalQuantity)
}

func TestDetectorDedupAcrossFormats(t *testing.T) {
	// The same product in table and compact form must be captured once,
	// with the table detector winning.
	text := `
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 90 6
		15016(12)KING FISHER PREMIUM LAGER BEERBeerG12/650ml1000
	`

	products := runDetectors(text)

	assert.Len(t, products, 1)
	assert.Equal(t, 90, products[0].Cases)
	assert.Equal(t, 6, products[0].Bottles)

	seen := make(map[string]bool)
	for _, p := range products {
		key := p.BrandNumber + "|" + p.Size
		assert.False(t, seen[key], "duplicate candidate key %s", key)
		seen[key] = true
	}
}

func TestCandidatesSortedBySerial(t *testing.T) {
	text := `
		2 1111 ROYAL CHALLENGE WHISKY IML G 48 / 180 ml 25 12
		1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0
	`

	products := runDetectors(text)

	assert.Len(t, products, 2)
	assert.Equal(t, 1, products[0].Serial)
	assert.Equal(t, 2, products[1].Serial)
}
