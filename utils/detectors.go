package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/liquorops/invoice-parser/dto"
)

// serialSentinel sorts candidates without a line-item number after the rest.
const serialSentinel = 1_000_000

// verticalScanWindow bounds how far below a header the vertical detectors
// look for the name and detail lines.
const verticalScanWindow = 10

// Product line patterns for the observed invoice layouts. Brand numbers are
// fixed-width 4-digit codes, which is what lets the concatenated
// serial+brand numerals in the compact and header forms be split.
var (
	// "1 5016 (12) KING FISHER PREMIUM LAGER BEER Beer G 12 / 650 ml 100 0"
	tableLinePattern = regexp.MustCompile(`^(\d{1,3})\s+(\d{4})\s*(?:\((\d+)\))?\s+(.+?)\s+(Beer|IML|Duty\s?Paid)\s+([GCP])\s+(\d+)\s*/\s*(\d+)\s*ml\s+(\d+)\s+(\d+)$`)

	// Same fields with the separating whitespace lost; the trailing numeral
	// is the concatenated cases+bottles value.
	// "15016(12)KING FISHER PREMIUM LAGER BEERBeerG12/650ml1000"
	compactLinePattern = regexp.MustCompile(`^(\d{1,3}?)(\d{4})\((\d+)\)(.+?)(Beer|IML|Duty ?Paid)([GCP])(\d+)\s*/\s*(\d+)\s*ml(\d+)$`)

	// "15016 (12)" — serial 1, brand 5016, pack quantity 12
	verticalHeaderPattern = regexp.MustCompile(`^(\d{1,3}?)(\d{4})\s*\((\d+)\)$`)

	// "15016" — header without the parenthesized pack quantity
	standaloneHeaderPattern = regexp.MustCompile(`^(\d{1,3}?)(\d{4})$`)

	// Free-text product name lines under a vertical header
	productNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9 .&'\-]+$`)

	// "Beer G 12 / 650 ml 1000" — type, pack, size and concatenated quantity
	detailLinePattern = regexp.MustCompile(`^(Beer|IML|Duty ?Paid)\s*([GCP])\s*(\d+)\s*/\s*(\d+)\s*ml\s*(\d+)$`)
)

// sectionMarkers end a vertical record even when no detail line was seen.
var sectionMarkers = []string{"TIN NO:", "Particulars"}

// parseState is the shared mutable state threaded through the format
// detectors for one parse invocation. Detector order is a priority
// ranking: once a (brandNumber, size) key is claimed, later detectors
// must not reprocess it.
type parseState struct {
	candidates []dto.CandidateProduct
	seen       map[string]bool
}

func newParseState() *parseState {
	return &parseState{seen: make(map[string]bool)}
}

// claim reserves a (brandNumber, size) key; it reports false when an
// earlier detector already captured that product.
func (s *parseState) claim(brandNumber, size string) bool {
	key := brandNumber + "|" + size
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

func (s *parseState) add(p dto.CandidateProduct) {
	s.candidates = append(s.candidates, p)
}

// formatDetectors run unconditionally and in this fixed order per
// document. The order resolves conflicts: Table > Compact > Vertical >
// Standalone.
var formatDetectors = []func([]string, *parseState){
	detectTableFormat,
	detectCompactFormat,
	detectVerticalFormat,
	detectStandaloneFormat,
}

// detectTableFormat captures fully tabulated product lines where every
// field sits on one space-separated line. Lines with a zero case count
// are carried-forward headers, not purchases, and are ignored.
func detectTableFormat(lines []string, state *parseState) {
	for _, line := range lines {
		m := tableLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cases, _ := strconv.Atoi(m[9])
		if cases == 0 {
			continue
		}
		bottles, _ := strconv.Atoi(m[10])
		packQty, _ := strconv.Atoi(m[7])
		sizeML, _ := strconv.Atoi(m[8])
		size := m[8] + "ml"
		if !state.claim(m[2], size) {
			continue
		}
		serial, _ := strconv.Atoi(m[1])
		state.add(dto.CandidateProduct{
			BrandNumber:   m[2],
			Description:   strings.TrimSpace(m[4]),
			Size:          size,
			SizeCode:      sizeCodeFor(sizeML),
			Cases:         cases,
			Bottles:       bottles,
			TotalQuantity: cases*packQty + bottles,
			PackQty:       packQty,
			ProductType:   normalizeProductType(m[5]),
			PackType:      dto.PackType(m[6]),
			Serial:        serial,
		})
	}
}

// detectCompactFormat captures the same record shape printed with no
// separating whitespace. The trailing numeral is a concatenated
// cases+bottles value and goes through the quantity disambiguator.
func detectCompactFormat(lines []string, state *parseState) {
	for _, line := range lines {
		m := compactLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		packQty, _ := strconv.Atoi(m[7])
		if packQty == 0 {
			continue
		}
		sizeML, _ := strconv.Atoi(m[8])
		size := m[8] + "ml"
		if !state.claim(m[2], size) {
			continue
		}
		serial, _ := strconv.Atoi(m[1])
		cases, bottles := splitCasesBottles(m[9], packQty)
		state.add(dto.CandidateProduct{
			BrandNumber:   m[2],
			Description:   strings.TrimSpace(m[4]),
			Size:          size,
			SizeCode:      sizeCodeFor(sizeML),
			Cases:         cases,
			Bottles:       bottles,
			TotalQuantity: cases*packQty + bottles,
			PackQty:       packQty,
			ProductType:   normalizeProductType(m[5]),
			PackType:      dto.PackType(m[6]),
			Serial:        serial,
		})
	}
}

// detectVerticalFormat captures records whose fields are stacked across
// several lines under a "<serial><brand> (<packQty>)" header: free-text
// name lines followed by one detail line with type, pack, size and
// quantity.
func detectVerticalFormat(lines []string, state *parseState) {
	for i, line := range lines {
		h := verticalHeaderPattern.FindStringSubmatch(line)
		if h == nil {
			continue
		}
		packQty, _ := strconv.Atoi(h[3])
		if packQty == 0 {
			continue
		}
		serial, _ := strconv.Atoi(h[1])
		captureVerticalRecord(lines, i, state, h[2], serial, packQty)
	}
}

// detectStandaloneFormat handles headers without the parenthesized pack
// quantity; the pack quantity is recovered from the detail line instead.
func detectStandaloneFormat(lines []string, state *parseState) {
	for i, line := range lines {
		h := standaloneHeaderPattern.FindStringSubmatch(line)
		if h == nil {
			continue
		}
		serial, _ := strconv.Atoi(h[1])
		captureVerticalRecord(lines, i, state, h[2], serial, 0)
	}
}

// captureVerticalRecord scans below a header line for the product name and
// detail line. packQty 0 means the header carried none and the detail
// line's own pack quantity is used.
func captureVerticalRecord(lines []string, headerIdx int, state *parseState, brand string, serial, packQty int) {
	var nameParts []string
	for j := headerIdx + 1; j < len(lines) && j <= headerIdx+verticalScanWindow; j++ {
		next := lines[j]
		if isSectionMarker(next) || verticalHeaderPattern.MatchString(next) || standaloneHeaderPattern.MatchString(next) {
			return
		}
		if d := detailLinePattern.FindStringSubmatch(next); d != nil {
			detailPackQty, _ := strconv.Atoi(d[3])
			if packQty == 0 {
				packQty = detailPackQty
			}
			if packQty == 0 {
				return
			}
			sizeML, _ := strconv.Atoi(d[4])
			size := d[4] + "ml"
			if !state.claim(brand, size) {
				return
			}
			cases, bottles := splitCasesBottles(d[5], packQty)
			state.add(dto.CandidateProduct{
				BrandNumber:   brand,
				Description:   strings.Join(nameParts, " "),
				Size:          size,
				SizeCode:      sizeCodeFor(sizeML),
				Cases:         cases,
				Bottles:       bottles,
				TotalQuantity: cases*packQty + bottles,
				PackQty:       packQty,
				ProductType:   normalizeProductType(d[1]),
				PackType:      dto.PackType(d[2]),
				Serial:        serial,
			})
			return
		}
		if productNamePattern.MatchString(next) {
			nameParts = append(nameParts, next)
		}
	}
}

func isSectionMarker(line string) bool {
	for _, marker := range sectionMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func normalizeProductType(s string) dto.ProductType {
	switch strings.ReplaceAll(s, " ", "") {
	case "Beer":
		return dto.ProductTypeBeer
	case "IML":
		return dto.ProductTypeIML
	case "DutyPaid":
		return dto.ProductTypeDutyPaid
	}
	return dto.ProductType(s)
}

// sortCandidates orders the shared candidate list by invoice serial to
// restore document order; candidates without a serial sort last.
func sortCandidates(candidates []dto.CandidateProduct) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return serialOrSentinel(candidates[i].Serial) < serialOrSentinel(candidates[j].Serial)
	})
}

func serialOrSentinel(serial int) int {
	if serial == 0 {
		return serialSentinel
	}
	return serial
}
