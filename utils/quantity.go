package utils

import (
	"strconv"
	"strings"
)

// Depot invoices print case and bottle counts as one concatenated numeral
// ("1000" = 100 cases, 0 bottles). splitCasesBottles recovers the two
// components using packQty (bottles per case) as the upper bound on the
// bottles part, so that the returned pair satisfies bottles < packQty.
func splitCasesBottles(digits string, packQty int) (cases, bottles int) {
	switch n := len(digits); {
	case n < 2:
		cases, _ = strconv.Atoi(digits)
		return cases, 0
	case n == 2:
		cases, _ = strconv.Atoi(digits[:1])
		bottles, _ = strconv.Atoi(digits[1:])
		return cases, bottles
	case n == 3:
		if strings.HasSuffix(digits, "0") {
			cases, _ = strconv.Atoi(digits[:2])
			return cases, 0
		}
		return chooseSplit(digits, packQty, 1, 2)
	case n == 4:
		if strings.HasSuffix(digits, "00") {
			cases, _ = strconv.Atoi(digits[:3])
			return cases, 0
		}
		return chooseSplit(digits, packQty, 2, 3)
	default:
		cases, _ = strconv.Atoi(digits[:n-2])
		bottles, _ = strconv.Atoi(digits[n-2:])
		return cases, bottles
	}
}

// chooseSplit compares the two candidate split points for an ambiguous
// numeral. Candidates whose bottles component would reach packQty are
// rejected; among the rest, the bottles value closest to packQty wins.
// A tie keeps the earlier candidate.
func chooseSplit(digits string, packQty, firstCut, secondCut int) (int, int) {
	type split struct{ cases, bottles int }

	mk := func(cut int) split {
		c, _ := strconv.Atoi(digits[:cut])
		b, _ := strconv.Atoi(digits[cut:])
		return split{c, b}
	}

	best := split{}
	bestDist := -1
	for _, s := range []split{mk(firstCut), mk(secondCut)} {
		if s.bottles >= packQty {
			continue
		}
		dist := packQty - s.bottles
		if bestDist < 0 || dist < bestDist {
			best = s
			bestDist = dist
		}
	}
	if bestDist < 0 {
		// Neither split stays under packQty; treat the whole numeral as cases.
		c, _ := strconv.Atoi(digits)
		return c, 0
	}
	return best.cases, best.bottles
}

// sizeCodes maps bottle size in ml to the two-letter regulatory code.
var sizeCodes = map[int]string{
	90:   "DD",
	180:  "NN",
	275:  "XP",
	330:  "GP",
	375:  "PP",
	500:  "BS",
	650:  "BL",
	750:  "QQ",
	1000: "LL",
}

func sizeCodeFor(sizeML int) string {
	return sizeCodes[sizeML]
}

// sizeToML parses the numeric part of a size string like "650ml".
func sizeToML(size string) int {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(size)), "ml")
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
