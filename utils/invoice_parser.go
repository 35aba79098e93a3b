package utils

import (
	"fmt"

	"github.com/liquorops/invoice-parser/dto"
)

const (
	// parseConfidence is reported on any successful parse; the heuristics
	// do not self-calibrate.
	parseConfidence = 0.85

	parseMethod = "multi-format-heuristic"

	matchConfidenceHigh = "high"
)

// ParseInvoice runs the full extraction pipeline over raw depot invoice
// text and validates the recovered line items against the master brand
// catalog. It always returns a structured result: heuristic misses surface
// as skipped items or zeroed financial fields, and an internal panic is
// converted into a failed result instead of propagating.
func ParseInvoice(rawText string, masterBrands []dto.MasterBrandRecord) (result dto.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = dto.ParseResult{
				Success: false,
				Error:   fmt.Sprintf("internal error while parsing invoice: %v", r),
			}
		}
	}()

	lines := NormalizeLines(rawText)

	state := newParseState()
	for _, detect := range formatDetectors {
		detect(lines, state)
	}
	sortCandidates(state.candidates)

	financials := ExtractFinancials(lines)

	if len(state.candidates) == 0 {
		return dto.ParseResult{
			Success:    false,
			Financials: financials,
			Error:      "no product lines recognized in invoice text",
		}
	}

	validated, skipped := matchCatalog(state.candidates, masterBrands)

	warnings := make([]string, 0, len(skipped))
	for _, s := range skipped {
		warnings = append(warnings, s.Reason)
	}

	total := len(state.candidates)
	return dto.ParseResult{
		Success:    true,
		Confidence: parseConfidence,
		Method:     parseMethod,
		Financials: financials,
		Items:      validated,
		Skipped:    skipped,
		Summary: dto.ParseSummary{
			ParsedCount:    total,
			ValidatedCount: len(validated),
			SkippedCount:   len(skipped),
			MatchRate:      matchRate(len(validated), total),
		},
		Warnings: warnings,
	}
}

// matchCatalog joins candidates against the master brand catalog on the
// exact (brandNumber, size, packQuantity, packType) key. No fuzzy or
// partial matching: a miss becomes a skipped item with a remediation
// suggestion.
func matchCatalog(candidates []dto.CandidateProduct, masterBrands []dto.MasterBrandRecord) ([]dto.ValidatedItem, []dto.SkippedItem) {
	index := make(map[string]dto.MasterBrandRecord, len(masterBrands))
	for _, rec := range masterBrands {
		index[catalogKey(rec.BrandNumber, rec.SizeML, rec.PackQuantity, rec.PackType)] = rec
	}

	validated := make([]dto.ValidatedItem, 0, len(candidates))
	skipped := make([]dto.SkippedItem, 0)

	for _, c := range candidates {
		rec, ok := index[catalogKey(c.BrandNumber, sizeToML(c.Size), c.PackQty, string(c.PackType))]
		if !ok {
			skipped = append(skipped, dto.SkippedItem{
				CandidateProduct: c,
				Reason: fmt.Sprintf("no master brand found for brand %s (%s, pack %d, type %s)",
					c.BrandNumber, c.Size, c.PackQty, c.PackType),
				Suggestion: fmt.Sprintf("add brand %s size %s pack %d/%s to the master catalog",
					c.BrandNumber, c.Size, c.PackQty, c.PackType),
			})
			continue
		}

		enriched := c
		enriched.Description = rec.Name
		enriched.SizeCode = rec.SizeCode
		validated = append(validated, dto.ValidatedItem{
			CandidateProduct: enriched,
			MasterBrandID:    rec.ID,
			MRP:              rec.MRP,
			FormattedSize:    fmt.Sprintf("%dml", rec.SizeML),
			MatchConfidence:  matchConfidenceHigh,
		})
	}
	return validated, skipped
}

func catalogKey(brandNumber string, sizeML, packQty int, packType string) string {
	return fmt.Sprintf("%s|%d|%d|%s", brandNumber, sizeML, packQty, packType)
}

func matchRate(validated, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(validated) / float64(total)
}
