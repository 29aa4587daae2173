package analysis

import (
	"github.com/rewired-gh/lottoracle/internal/models"
)

// DrawPattern holds the pattern flags of one primary value.
type DrawPattern struct {
	Consecutive bool // some adjacent pair ascends by exactly one
	Repeated    bool // fewer than six distinct characters
	Sum         int
	HasSum      bool // all six characters are digits
	LastDigit   int
	HasParity   bool // the last character is a digit
}

// Odd reports whether the value counts as odd. A last character that is not
// a digit has no even parity, so it counts as odd.
func (p DrawPattern) Odd() bool {
	return !p.HasParity || p.LastDigit%2 == 1
}

// ClassifyDraw computes the pattern flags of a primary value. It returns
// false when the value is not exactly six characters long.
func ClassifyDraw(value string) (DrawPattern, bool) {
	rec := models.DrawRecord{PrimaryValue: value}
	if !rec.HasValidPrimary() {
		return DrawPattern{}, false
	}
	runes := rec.PrimaryRunes()

	var p DrawPattern
	for i := 0; i+1 < len(runes); i++ {
		a, okA := models.DigitValue(runes[i])
		b, okB := models.DigitValue(runes[i+1])
		if okA && okB && a+1 == b {
			p.Consecutive = true
			break
		}
	}

	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
	}
	p.Repeated = len(distinct) < len(runes)

	p.HasSum = true
	for _, r := range runes {
		d, ok := models.DigitValue(r)
		if !ok {
			p.HasSum = false
			p.Sum = 0
			break
		}
		p.Sum += d
	}

	p.LastDigit, p.HasParity = models.DigitValue(runes[len(runes)-1])
	return p, true
}

// DetectPatterns accumulates the pattern flags of every 6-character primary value.
func DetectPatterns(draws []models.DrawRecord) models.PatternCounters {
	counters := models.PatternCounters{SumPatterns: make(map[int]int)}
	for i := range draws {
		p, ok := ClassifyDraw(draws[i].PrimaryValue)
		if !ok {
			continue
		}
		if p.Consecutive {
			counters.Consecutive++
		}
		if p.Repeated {
			counters.Repeated++
		}
		if p.HasSum {
			counters.SumPatterns[p.Sum]++
		}
		if p.Odd() {
			counters.LastDigitOddEven.Odd++
		} else {
			counters.LastDigitOddEven.Even++
		}
	}
	return counters
}
