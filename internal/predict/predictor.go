// Package predict turns an analysis report into candidate numbers.
//
// None of these generators forecasts anything. They recombine descriptive
// statistics with random sampling from an injected rng.Source, so their
// output is only structurally stable: fixed lengths and digit counts.
package predict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/rng"
)

// Output limits per candidate list.
const (
	MaxFirstPrize   = 10
	MaxThreeDigit   = 10
	MaxTwoDigit     = 15
	maxTwoDigitPool = 20
)

var (
	oddDigits  = []int{1, 3, 5, 7, 9}
	evenDigits = []int{0, 2, 4, 6, 8}

	// fixedThreeDigit are sequence patterns always offered as three-digit candidates.
	fixedThreeDigit = []string{"123", "456", "789", "111", "222"}
)

// Predictor generates candidate numbers from one report.
type Predictor struct {
	report models.AnalysisReport
	rnd    rng.Source
	hot    []int
	cold   []int
}

// NewPredictor creates a predictor over report drawing randomness from src.
func NewPredictor(report models.AnalysisReport, src rng.Source) *Predictor {
	return &Predictor{
		report: report,
		rnd:    src,
		hot:    report.HotColdNumbers.HotDigits(),
		cold:   report.HotColdNumbers.ColdDigits(),
	}
}

// All runs every generator once.
func (p *Predictor) All() models.PredictionSet {
	return models.PredictionSet{
		FirstPrize: p.FirstPrize(),
		ThreeDigit: p.ThreeDigit(),
		TwoDigit:   p.TwoDigit(),
		Advanced:   p.Advanced(),
		Confidence: p.report.Confidence,
	}
}

// FirstPrize blends three strategies into at most ten distinct six-digit
// candidates: positional favourites, a hot/cold mix and a parity-biased draw.
func (p *Predictor) FirstPrize() []string {
	candidates := make([]string, 0, 10)

	top := make([][]int, models.PrimaryLength)
	for pos := range top {
		top[pos] = topDigits(p.report.DigitFrequency.PositionFreq[pos], 5)
	}
	for i := 0; i < 5; i++ {
		var b strings.Builder
		for pos := range top {
			b.WriteString(digitString(top[pos][i%len(top[pos])]))
		}
		candidates = append(candidates, b.String())
	}

	for i := 0; i < 3; i++ {
		var b strings.Builder
		for pos := 0; pos < models.PrimaryLength; pos++ {
			switch {
			case pos%2 == 0 && len(p.hot) > 0:
				b.WriteString(digitString(p.pick(p.hot)))
			case len(p.cold) > 0:
				b.WriteString(digitString(p.pick(p.cold)))
			default:
				b.WriteString(digitString(p.rnd.Intn(10)))
			}
		}
		candidates = append(candidates, b.String())
	}

	parity := p.report.Patterns.LastDigitOddEven
	preferOdd := parity.Odd > parity.Even
	for i := 0; i < 2; i++ {
		candidates = append(candidates, p.byParity(preferOdd))
	}

	return uniqueLimit(candidates, MaxFirstPrize)
}

// ThreeDigit offers the most frequent historical tokens, hot-digit triples
// and a few fixed sequences.
func (p *Predictor) ThreeDigit() []string {
	candidates := make([]string, 0, 15)
	for _, pc := range head(p.report.Top3Digits, 5) {
		candidates = append(candidates, pc.Token)
	}
	for i := 0; i < 5; i++ {
		var b strings.Builder
		for j := 0; j < 3; j++ {
			b.WriteString(digitString(p.hotOrAny()))
		}
		candidates = append(candidates, b.String())
	}
	candidates = append(candidates, fixedThreeDigit...)
	return uniqueLimit(candidates, MaxThreeDigit)
}

// TwoDigit offers the most frequent historical tokens, the ten doubles and
// pairs of hot digits.
func (p *Predictor) TwoDigit() []string {
	candidates := make([]string, 0, maxTwoDigitPool+5)
	for _, pc := range head(p.report.Top2Digits, 5) {
		candidates = append(candidates, pc.Token)
	}
	for d := 0; d < 10; d++ {
		candidates = append(candidates, fmt.Sprintf("%d%d", d, d))
	}
	for _, a := range p.hot {
		for _, b := range p.hot {
			if len(candidates) >= maxTwoDigitPool {
				break
			}
			candidates = append(candidates, fmt.Sprintf("%d%d", a, b))
		}
	}
	return uniqueLimit(candidates, MaxTwoDigit)
}

// byParity draws five hot (or uniform) digits and a last digit of the preferred parity.
func (p *Predictor) byParity(preferOdd bool) string {
	var b strings.Builder
	for i := 0; i < models.PrimaryLength-1; i++ {
		b.WriteString(digitString(p.hotOrAny()))
	}
	if preferOdd {
		b.WriteString(digitString(p.pick(oddDigits)))
	} else {
		b.WriteString(digitString(p.pick(evenDigits)))
	}
	return b.String()
}

func (p *Predictor) hotOrAny() int {
	if len(p.hot) > 0 {
		return p.pick(p.hot)
	}
	return p.rnd.Intn(10)
}

func (p *Predictor) pick(digits []int) int {
	return digits[p.rnd.Intn(len(digits))]
}

// topDigits returns up to n digits ordered by descending count, ties by digit.
func topDigits(counts [10]int, n int) []int {
	digits := make([]int, 10)
	for d := range digits {
		digits[d] = d
	}
	sort.SliceStable(digits, func(i, j int) bool {
		return counts[digits[i]] > counts[digits[j]]
	})
	return digits[:n]
}

func head(list []models.PatternCount, n int) []models.PatternCount {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func digitString(d int) string {
	return string(rune('0' + d))
}

// uniqueLimit drops repeated values, keeping first occurrences, and truncates to n.
func uniqueLimit(values []string, n int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, n)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}
