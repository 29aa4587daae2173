package predict

import (
	"sort"
	"strings"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const maxMarkov = 5

var (
	// neuralWeights are drawn at random per digit score; they are not trained.
	neuralWeights = []float64{0.3, 0.25, 0.2, 0.15, 0.1}

	fibonacci = []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	primes    = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}
)

// Advanced runs the named heuristic generators.
func (p *Predictor) Advanced() models.AdvancedPredictions {
	return models.AdvancedPredictions{
		MarkovChain:   p.MarkovChain(),
		NeuralNetwork: p.NeuralNetwork(),
		Fibonacci:     Fibonacci(),
		PrimeNumbers:  Primes(),
	}
}

// MarkovChain chains the destination digits of the six most frequent digit
// transitions, then pads with even-ending parity candidates.
func (p *Predictor) MarkovChain() []string {
	type transition struct {
		key   string
		count int
	}
	ranked := make([]transition, 0, len(p.report.AdvancedStats.DigitTransitions))
	for k, c := range p.report.AdvancedStats.DigitTransitions {
		ranked = append(ranked, transition{k, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})
	if len(ranked) > models.PrimaryLength {
		ranked = ranked[:models.PrimaryLength]
	}

	candidates := make([]string, 0, maxMarkov)
	var b strings.Builder
	for _, t := range ranked {
		if _, to, ok := strings.Cut(t.key, "->"); ok {
			b.WriteString(to)
		}
	}
	if b.Len() == models.PrimaryLength {
		candidates = append(candidates, b.String())
	}
	for i := 0; i < 4; i++ {
		candidates = append(candidates, p.byParity(false))
	}
	if len(candidates) > maxMarkov {
		candidates = candidates[:maxMarkov]
	}
	return candidates
}

// NeuralNetwork scores each digit per position by its count times a random
// weight and takes the first, second or third best in rotation.
func (p *Predictor) NeuralNetwork() []string {
	type scored struct {
		digit int
		score float64
	}
	candidates := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		var b strings.Builder
		for pos := 0; pos < models.PrimaryLength; pos++ {
			freq := p.report.DigitFrequency.PositionFreq[pos]
			scores := make([]scored, len(freq))
			for d, f := range freq {
				w := neuralWeights[p.rnd.Intn(len(neuralWeights))]
				scores[d] = scored{digit: d, score: float64(f) * w}
			}
			sort.SliceStable(scores, func(a, c int) bool {
				return scores[a].score > scores[c].score
			})
			b.WriteString(digitString(scores[i%3].digit))
		}
		candidates = append(candidates, b.String())
	}
	return candidates
}

// Fibonacci returns three candidates read off a sliding window of the
// Fibonacci sequence, last digit of each term.
func Fibonacci() []string {
	return slidingLastDigits(fibonacci, 1)
}

// Primes returns three candidates read off a sliding window of the primes,
// last digit of each term, advancing two terms per candidate.
func Primes() []string {
	return slidingLastDigits(primes, 2)
}

func slidingLastDigits(seq []int, step int) []string {
	out := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		var b strings.Builder
		for j := 0; j < models.PrimaryLength; j++ {
			b.WriteString(digitString(seq[(i*step+j)%len(seq)] % 10))
		}
		out = append(out, b.String())
	}
	return out
}
