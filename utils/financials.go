package utils

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liquorops/invoice-parser/dto"
)

// Reconciliation tolerances and thresholds. These are tuned against the
// observed invoice layouts; change them only as a product decision.
const (
	// netInvoiceValue ≈ invoiceValue + mrpRoundingOff, relative to net
	netSumTolerance = 0.01

	// retailExciseTurnoverTax is levied at 10% of invoiceValue
	turnoverTaxRate      = 0.10
	turnoverTaxTolerance = 0.15

	// minimum relationship score for the reconciler to accept a combination
	reconcileScoreAccept = 3

	// candidate counts and value bounds for the positional pass
	reconcileMinCandidates = 5
	invoiceTrialCount      = 5
	cessFloor              = 100_000.0
	amountCeiling          = 100_000_000.0

	// the financial summary lives in the trailing ~40% of the document
	summaryStartFraction = 0.60
)

// finField enumerates the six monetary fields in the order their labels
// appear on the invoice footer.
type finField int

const (
	fieldInvoiceValue finField = iota
	fieldMRPRounding
	fieldNetInvoice
	fieldTurnoverTax
	fieldSpecialCess
	fieldTCS
	fieldCount
)

// finValues is the working representation while extracting; fields are
// filled first-writer-wins and any still-zero field reports as 0.
type finValues [fieldCount]float64

// sameLinePatterns match a label and its amount co-located on one line,
// e.g. "TCS:15,162.00". Tried in order per line; "Net Invoice Value" must
// come before "Invoice Value" so the longer label claims the line.
var sameLinePatterns = []struct {
	field finField
	re    *regexp.Regexp
}{
	{fieldNetInvoice, regexp.MustCompile(`(?i)net\s*invoice\s*value\s*:?\s*(?:rs\.?)?\s*([0-9][0-9,]*(?:\.\d+)?)`)},
	{fieldMRPRounding, regexp.MustCompile(`(?i)mrp\s*rounding\s*off\s*:?\s*(?:rs\.?)?\s*(-?[0-9][0-9,]*(?:\.\d+)?)`)},
	{fieldTurnoverTax, regexp.MustCompile(`(?i)retail\s*(?:shop\s*)?excise\s*turnover\s*tax\s*:?\s*(?:rs\.?)?\s*([0-9][0-9,]*(?:\.\d+)?)`)},
	{fieldSpecialCess, regexp.MustCompile(`(?i)special\s*excise\s*cess\s*:?\s*(?:rs\.?)?\s*([0-9][0-9,]*(?:\.\d+)?)`)},
	{fieldTCS, regexp.MustCompile(`(?i)\btcs\b\s*:?\s*(?:rs\.?)?\s*([0-9][0-9,]*(?:\.\d+)?)`)},
	{fieldInvoiceValue, regexp.MustCompile(`(?i)invoice\s*value\s*:?\s*(?:rs\.?)?\s*([0-9][0-9,]*(?:\.\d+)?)`)},
}

// labelWords spell each footer label as the per-line fragments the block
// layout prints them in, in footer order.
var labelWords = [fieldCount][]string{
	fieldInvoiceValue: {"invoice", "value"},
	fieldMRPRounding:  {"mrp", "rounding", "off"},
	fieldNetInvoice:   {"net", "invoice", "value"},
	fieldTurnoverTax:  {"retail", "shop", "excise", "turnover", "tax"},
	fieldSpecialCess:  {"special", "excise", "cess"},
	fieldTCS:          {"tcs"},
}

// fullLabels resolve a complete normalized label to its field, covering
// the observed wording variants.
var fullLabels = map[string]finField{
	"invoice value":                   fieldInvoiceValue,
	"mrp rounding off":                fieldMRPRounding,
	"net invoice value":               fieldNetInvoice,
	"retail excise turnover tax":      fieldTurnoverTax,
	"retail shop excise turnover tax": fieldTurnoverTax,
	"special excise cess":             fieldSpecialCess,
	"tcs":                             fieldTCS,
}

// amountShapePatterns recognize the three numeral shapes the positional
// pass collects: large amounts with paise, medium round figures, and
// small amounts.
var amountShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d[\d,]{4,}\.\d{2}$`),
	regexp.MustCompile(`^\d[\d,]{4,9}$`),
	regexp.MustCompile(`^\d[\d,]{0,5}\.\d{2}$`),
}

// bareAmountPattern matches a line that is nothing but an amount.
var bareAmountPattern = regexp.MustCompile(`^(?:[Rr]s\.?\s*)?\d[\d,]*(?:\.\d+)?$`)

// labelFragmentPattern matches a line that could be part of a fragmented
// label in the interleaved layout.
var labelFragmentPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*:?$`)

// amountCandidate is a numeral collected by the positional pass, with its
// document position for the order-sensitive reconciliation rules.
type amountCandidate struct {
	value float64
	line  int
	raw   string
}

// ExtractFinancials recovers the six monetary totals from normalized
// invoice lines. Five extraction passes run in order, each only filling
// fields that are still zero; the positional pass hands its candidates to
// the relationship reconciler. Unresolved fields report as 0, never
// undefined.
func ExtractFinancials(lines []string) dto.FinancialSummary {
	var vals finValues

	extractSameLine(lines, &vals)
	extractBlock(lines, &vals)
	extractSplitLine(lines, &vals)
	extractInterleaved(lines, &vals)

	cands := collectAmountCandidates(lines)
	if len(cands) >= reconcileMinCandidates {
		if !reconcileRelationships(cands, &vals) {
			applyFallbackBuckets(cands, &vals)
		}
	}

	return assembleFinancialSummary(vals)
}

// extractSameLine handles labels co-located with their amount.
func extractSameLine(lines []string, vals *finValues) {
	for _, line := range lines {
		for _, sp := range sameLinePatterns {
			m := sp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if vals[sp.field] == 0 {
				if v, ok := parseAmount(m[1]); ok && v > 0 {
					vals[sp.field] = v
				}
			}
			// one field per line: stop so "Net Invoice Value" lines are
			// never re-read as "Invoice Value"
			break
		}
	}
}

// extractBlock handles the layout where labels fragment into single-word
// lines and all amounts follow later as one contiguous numeric run,
// mapped positionally in label order.
func extractBlock(lines []string, vals *finValues) {
	fields, lastLabelEnd := scanFragmentedLabels(lines)
	if len(fields) < 2 {
		return
	}

	run := numericRunAfter(lines, lastLabelEnd+1)
	if len(run) == 0 {
		return
	}

	n := len(fields)
	if len(run) < n {
		n = len(run)
	}
	for k := 0; k < n; k++ {
		if vals[fields[k]] == 0 && run[k] > 0 {
			vals[fields[k]] = run[k]
		}
	}
}

// scanFragmentedLabels finds labels whose words appear on consecutive
// lines, longest label first so "Net Invoice Value" is never read as
// "Invoice Value". Returns the fields in document order and the index of
// the last label line.
func scanFragmentedLabels(lines []string) ([]finField, int) {
	order := []finField{fieldTurnoverTax, fieldNetInvoice, fieldMRPRounding, fieldSpecialCess, fieldInvoiceValue, fieldTCS}

	var fields []finField
	lastEnd := -1
	for i := 0; i < len(lines); {
		// a bare amount after the first label means the label block has
		// ended (or the layout is interleaved, handled by a later pass)
		if len(fields) > 0 {
			if _, ok := parseAmountLine(lines[i]); ok {
				break
			}
		}
		matched := false
		for _, f := range order {
			words := labelWords[f]
			if end, ok := matchWordRun(lines, i, words); ok {
				fields = append(fields, f)
				lastEnd = end
				i = end + 1
				matched = true
				break
			}
			// the turnover tax label also appears without "shop"
			if f == fieldTurnoverTax {
				short := []string{"retail", "excise", "turnover", "tax"}
				if end, ok := matchWordRun(lines, i, short); ok {
					fields = append(fields, f)
					lastEnd = end
					i = end + 1
					matched = true
					break
				}
			}
		}
		if !matched {
			i++
		}
	}
	return fields, lastEnd
}

// matchWordRun reports whether lines[start:] begins with the given label
// words, one word per line.
func matchWordRun(lines []string, start int, words []string) (int, bool) {
	if start+len(words) > len(lines) {
		return 0, false
	}
	for k, w := range words {
		if normalizeLabelToken(lines[start+k]) != w {
			return 0, false
		}
	}
	return start + len(words) - 1, true
}

// numericRunAfter returns the first contiguous run of bare-amount lines at
// or after start.
func numericRunAfter(lines []string, start int) []float64 {
	var run []float64
	for i := start; i < len(lines); i++ {
		v, ok := parseAmountLine(lines[i])
		if !ok {
			if len(run) > 0 {
				break
			}
			continue
		}
		run = append(run, v)
	}
	return run
}

// extractSplitLine handles a full label on one line with its amount alone
// on the very next line.
func extractSplitLine(lines []string, vals *finValues) {
	for i := 0; i+1 < len(lines); i++ {
		f, ok := fullLabels[normalizeLabel(lines[i])]
		if !ok || vals[f] != 0 {
			continue
		}
		if v, ok := parseAmountLine(lines[i+1]); ok && v > 0 {
			vals[f] = v
		}
	}
}

// extractInterleaved handles labels and amounts alternating line by line
// with each label fragmented into word-per-line runs:
// "Invoice","Value:","<amount>","MRP","Rounding","Off:","<amount>", ...
func extractInterleaved(lines []string, vals *finValues) {
	var buf []string
	for _, line := range lines {
		if v, ok := parseAmountLine(line); ok {
			// longest suffix of the accumulated words that forms a label
			for k := 0; k < len(buf); k++ {
				if f, found := fullLabels[strings.Join(buf[k:], " ")]; found {
					if vals[f] == 0 && v > 0 {
						vals[f] = v
					}
					break
				}
			}
			buf = buf[:0]
			continue
		}
		if labelFragmentPattern.MatchString(line) {
			buf = append(buf, normalizeLabelToken(line))
			if len(buf) > 6 {
				buf = buf[1:]
			}
			continue
		}
		buf = buf[:0]
	}
}

// collectAmountCandidates gathers every token in the trailing summary
// section that looks like an amount, discarding implausibly large values.
func collectAmountCandidates(lines []string) []amountCandidate {
	start := int(float64(len(lines)) * summaryStartFraction)
	var cands []amountCandidate
	for i := start; i < len(lines); i++ {
		for _, token := range strings.Fields(lines[i]) {
			if !matchesAmountShape(token) {
				continue
			}
			v, ok := parseAmount(token)
			if !ok || v <= 0 || v >= amountCeiling {
				continue
			}
			cands = append(cands, amountCandidate{value: v, line: i, raw: token})
		}
	}
	return cands
}

func matchesAmountShape(token string) bool {
	for _, re := range amountShapePatterns {
		if re.MatchString(token) {
			return true
		}
	}
	return false
}

// reconcileRelationships searches candidate combinations against the known
// arithmetic relationships between the six fields. For each trial invoice
// value (largest first) it looks for a rounding/net pair summing to the
// invoice within tolerance, a turnover tax near 10% of the invoice, and
// the cess and TCS amounts positioned after the turnover tax. Each
// satisfied relationship scores one point; the best combination wins and
// is applied only when it reaches the acceptance threshold.
func reconcileRelationships(cands []amountCandidate, vals *finValues) bool {
	trials := make([]int, len(cands))
	for i := range cands {
		trials[i] = i
	}
	sort.SliceStable(trials, func(a, b int) bool {
		return cands[trials[a]].value > cands[trials[b]].value
	})
	if len(trials) > invoiceTrialCount {
		trials = trials[:invoiceTrialCount]
	}

	bestScore := 0
	var best finValues

	for _, invIdx := range trials {
		inv := cands[invIdx]
		used := map[int]bool{invIdx: true}
		var cur finValues
		cur[fieldInvoiceValue] = inv.value
		score := 0

		// net ≈ invoice + rounding
		if mrpIdx, netIdx, ok := findSumPair(cands, used, inv.value); ok {
			cur[fieldMRPRounding] = cands[mrpIdx].value
			cur[fieldNetInvoice] = cands[netIdx].value
			used[mrpIdx] = true
			used[netIdx] = true
			score++
		}

		// turnover ≈ 10% of invoice
		turnoverLine := -1
		expected := turnoverTaxRate * inv.value
		for i, c := range cands {
			if used[i] {
				continue
			}
			if math.Abs(c.value-expected) <= turnoverTaxTolerance*expected {
				cur[fieldTurnoverTax] = c.value
				turnoverLine = c.line
				used[i] = true
				score++
				break
			}
		}

		// cess and TCS sit after the turnover tax in document order
		if turnoverLine >= 0 {
			cessIdx := -1
			for i, c := range cands {
				if used[i] || c.line <= turnoverLine {
					continue
				}
				if c.value > cessFloor {
					cur[fieldSpecialCess] = c.value
					cessIdx = i
					used[i] = true
					score++
					break
				}
			}
			if cessIdx >= 0 {
				cess := cands[cessIdx]
				for i, c := range cands {
					if used[i] || c.line <= cess.line {
						continue
					}
					if c.value < cess.value {
						cur[fieldTCS] = c.value
						used[i] = true
						score++
						break
					}
				}
			}
		}

		if score > bestScore {
			bestScore = score
			best = cur
		}
	}

	if bestScore < reconcileScoreAccept {
		return false
	}
	for f := finField(0); f < fieldCount; f++ {
		if vals[f] == 0 {
			vals[f] = best[f]
		}
	}
	return true
}

// findSumPair looks for two unused candidates (rounding, net) with
// net ≈ invoice + rounding within the net-sum tolerance.
func findSumPair(cands []amountCandidate, used map[int]bool, invoice float64) (mrpIdx, netIdx int, ok bool) {
	for i := range cands {
		if used[i] {
			continue
		}
		for j := range cands {
			if i == j || used[j] {
				continue
			}
			net := cands[j].value
			if math.Abs(net-(invoice+cands[i].value)) <= netSumTolerance*net {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// applyFallbackBuckets assigns by size bucket when too few relationships
// hold: the largest decimal amount becomes the invoice value and the
// first round-hundred amount becomes the special excise cess.
func applyFallbackBuckets(cands []amountCandidate, vals *finValues) {
	if vals[fieldInvoiceValue] == 0 {
		largest := 0.0
		for _, c := range cands {
			if strings.Contains(c.raw, ".") && c.value > largest {
				largest = c.value
			}
		}
		vals[fieldInvoiceValue] = largest
	}
	if vals[fieldSpecialCess] == 0 {
		for _, c := range cands {
			if math.Mod(c.value, 100) == 0 {
				vals[fieldSpecialCess] = c.value
				break
			}
		}
	}
}

// assembleFinancialSummary rounds the working values to two decimal
// places and derives the total.
func assembleFinancialSummary(vals finValues) dto.FinancialSummary {
	d := func(f finField) decimal.Decimal {
		return decimal.NewFromFloat(vals[f]).Round(2)
	}
	s := dto.FinancialSummary{
		InvoiceValue:            d(fieldInvoiceValue),
		MRPRoundingOff:          d(fieldMRPRounding),
		NetInvoiceValue:         d(fieldNetInvoice),
		RetailExciseTurnoverTax: d(fieldTurnoverTax),
		SpecialExciseCess:       d(fieldSpecialCess),
		TCS:                     d(fieldTCS),
	}
	s.TotalAmount = s.InvoiceValue.
		Add(s.MRPRoundingOff).
		Add(s.RetailExciseTurnoverTax).
		Add(s.SpecialExciseCess).
		Add(s.TCS)
	return s
}

// parseAmountLine parses a line that consists of a single amount,
// optionally prefixed with a currency marker.
func parseAmountLine(line string) (float64, bool) {
	if !bareAmountPattern.MatchString(line) {
		return 0, false
	}
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rs."), "rs.")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rs"), "rs")
	return parseAmount(strings.TrimSpace(s))
}

// normalizeLabel lowercases a full label line and strips its colon.
func normalizeLabel(line string) string {
	fieldsJoined := strings.Join(strings.Fields(strings.ToLower(line)), " ")
	return strings.TrimSuffix(fieldsJoined, ":")
}

// normalizeLabelToken normalizes one fragmented label word.
func normalizeLabelToken(line string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(line)), ":")
}
