// Package grading turns A-Level offer strings into comparable scores.
package grading

import "strings"

// rangeSeparator splits offers published as a range ("A*AA - AAB").
const rangeSeparator = " - "

var gradeValues = map[string]int{
	"A*": 4,
	"A":  3,
	"B":  2,
	"C":  1,
	"D":  0,
}

// ScoreOffer returns the summed grade value of an offer. Only the first
// (highest) clause of a range is scored. Characters outside the grade alphabet
// are dropped and anything left that is not a grade contributes 0, so the
// score never fails on malformed input.
func ScoreOffer(offer string) int {
	if offer == "" {
		return 0
	}

	if first, _, ok := strings.Cut(offer, rangeSeparator); ok {
		offer = first
	}

	clean := cleanOffer(offer)

	total := 0
	for i := 0; i < len(clean); {
		if i+1 < len(clean) && clean[i:i+2] == "A*" {
			total += gradeValues["A*"]
			i += 2
			continue
		}
		total += gradeValues[clean[i:i+1]] // stray '*' scores 0
		i++
	}
	return total
}

func cleanOffer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'A', '*', 'B', 'C', 'D':
			b.WriteRune(r)
		}
	}
	return b.String()
}
