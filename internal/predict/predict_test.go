package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottoracle/internal/analysis"
	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
	"github.com/rewired-gh/lottoracle/internal/rng"
)

const sampleCSV = "date,first_prize,3digit_prefix,3digit_suffix,2digit\n" +
	"2024-01-01,112233,111 222,333 444,55\n" +
	"2024-01-16,223344,222 333,444 555,66"

func sampleReport() models.AnalysisReport {
	return analysis.Build(records.Parse(sampleCSV))
}

func assertDigits(t *testing.T, values []string, width int) {
	t.Helper()
	seen := make(map[string]bool)
	for _, v := range values {
		assert.Len(t, v, width, v)
		for _, r := range v {
			assert.True(t, r >= '0' && r <= '9', "non-digit in %q", v)
		}
		assert.False(t, seen[v], "duplicate %q", v)
		seen[v] = true
	}
}

func TestFirstPrize_Structure(t *testing.T) {
	sources := map[string]rng.Source{
		"seeded":   rng.New(7),
		"sequence": rng.NewSequence(3, 1, 4, 1, 5, 9, 2, 6),
		"zeros":    rng.NewSequence(),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			got := NewPredictor(sampleReport(), src).FirstPrize()
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), MaxFirstPrize)
			assertDigits(t, got, 6)
		})
	}
}

func TestFirstPrize_EmptyReportUsesDigitOrder(t *testing.T) {
	got := NewPredictor(analysis.Build(nil), rng.NewSequence(9)).FirstPrize()
	require.GreaterOrEqual(t, len(got), 5)
	assert.Equal(t, []string{"000000", "111111", "222222", "333333", "444444"}, got[:5])
	assertDigits(t, got, 6)
}

func TestThreeDigit(t *testing.T) {
	got := NewPredictor(sampleReport(), rng.New(1)).ThreeDigit()
	assert.LessOrEqual(t, len(got), MaxThreeDigit)
	assertDigits(t, got, 3)
	assert.Equal(t, []string{"222", "333", "444", "111", "555"}, got[:5])
}

func TestTwoDigit(t *testing.T) {
	got := NewPredictor(sampleReport(), rng.New(1)).TwoDigit()
	assert.Equal(t, []string{
		"55", "66", "00", "11", "22", "33", "44", "77", "88", "99",
		"12", "13", "14", "21", "23",
	}, got)
	assertDigits(t, got, 2)
}

func TestAll(t *testing.T) {
	report := sampleReport()
	set := NewPredictor(report, rng.New(3)).All()

	assert.Equal(t, report.Confidence, set.Confidence)
	assertDigits(t, set.FirstPrize, 6)
	assertDigits(t, set.ThreeDigit, 3)
	assertDigits(t, set.TwoDigit, 2)
	assert.Len(t, set.Advanced.NeuralNetwork, 5)
	assert.LessOrEqual(t, len(set.Advanced.MarkovChain), maxMarkov)
}

func TestFibonacciAndPrimes(t *testing.T) {
	assert.Equal(t, []string{"112358", "123583", "235831"}, Fibonacci())
	assert.Equal(t, []string{"235713", "571379", "137939"}, Primes())
}

func TestMarkovChain(t *testing.T) {
	report := analysis.Build(nil)
	report.AdvancedStats.DigitTransitions = map[string]int{
		"0->9": 10, "1->8": 9, "2->7": 8, "3->6": 7, "4->5": 6, "5->4": 5, "6->3": 1,
	}
	got := NewPredictor(report, rng.New(5)).MarkovChain()

	require.Len(t, got, maxMarkov)
	assert.Equal(t, "987654", got[0])
	for _, c := range got[1:] {
		assert.Len(t, c, 6)
		last := c[5] - '0'
		assert.Zero(t, last%2, c)
	}
}

func TestMarkovChain_TooFewTransitions(t *testing.T) {
	got := NewPredictor(sampleReport(), rng.New(5)).MarkovChain()
	assert.Len(t, got, 4)
	for _, c := range got {
		assert.Len(t, c, 6)
	}
}

func TestNeuralNetwork_ZeroScoresKeepDigitOrder(t *testing.T) {
	got := NewPredictor(analysis.Build(nil), rng.NewSequence(4, 0, 2)).NeuralNetwork()
	assert.Equal(t, []string{"000000", "111111", "222222", "000000", "111111"}, got)
}

func TestNeuralNetwork_Structure(t *testing.T) {
	got := NewPredictor(sampleReport(), rng.New(11)).NeuralNetwork()
	require.Len(t, got, 5)
	for _, c := range got {
		assert.Len(t, c, 6)
	}
}

func TestNumerology(t *testing.T) {
	birth := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)
	got := Numerology("a b", birth)

	assert.Equal(t, 3, got.LifePath)
	assert.Equal(t, 6, got.NameNumber)
	assert.Equal(t, []string{"03", "06", "33", "66", "63"}, got.LuckyNumbers)
}

func TestNumerology_MasterNumbersAndNineRule(t *testing.T) {
	got := Numerology("C", time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 22, got.LifePath)
	assert.Equal(t, 9, got.NameNumber)
	assert.Equal(t, "42", got.LuckyNumbers[2])
	assert.Len(t, got.LuckyNumbers, 5)
}

func TestInterpretDream(t *testing.T) {
	got := InterpretDream("ฝันเห็นงูในน้ำ")
	assert.Equal(t, []string{"งู", "น้ำ"}, got.Matched)
	assert.Equal(t, []string{"01", "21", "41", "61", "81"}, got.Numbers)
}

func TestInterpretDream_HashFallback(t *testing.T) {
	assert.Equal(t, []string{"22", "54", "86"}, InterpretDream("hello").Numbers)
	assert.Equal(t, []string{"63", "41", "19"}, InterpretDream("ฝันประหลาด").Numbers)
	assert.Equal(t, InterpretDream("hello").Numbers, InterpretDream("  hello ").Numbers)
	assert.Empty(t, InterpretDream("hello").Matched)
}

func TestInterpretDream_Blank(t *testing.T) {
	got := InterpretDream("   ")
	assert.NotNil(t, got.Numbers)
	assert.Empty(t, got.Numbers)
}

func TestNameValue(t *testing.T) {
	assert.Equal(t, 6, NameValue("A b C"))
	assert.Equal(t, 3, NameValue("กข"))
	assert.Equal(t, 0, NameValue("123 !"))
}

func TestLucky(t *testing.T) {
	birth := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got := Lucky("abc", birth, sampleReport(), now, rng.NewSequence(0))

	assert.Equal(t, "1990-05-15", got.BirthDate)
	assert.Equal(t, []int{6, 3, 1, 2}, got.SingleDigit)
	assert.Equal(t, []string{"06", "55", "34", "66"}, got.TwoDigit)
	assert.Equal(t, []string{"006", "590", "222", "333"}, got.ThreeDigit)
	assert.Equal(t, []string{"000006", "150533", "666666"}, got.SixDigit)
}

func TestLucky_Limits(t *testing.T) {
	birth := time.Date(1985, 12, 31, 0, 0, 0, 0, time.UTC)
	got := Lucky("สมชาย ใจดี", birth, sampleReport(), time.Now(), rng.New(42))

	assert.LessOrEqual(t, len(got.TwoDigit), MaxLuckyTwoDigit)
	assert.LessOrEqual(t, len(got.ThreeDigit), MaxLuckyThreeDigit)
	assert.LessOrEqual(t, len(got.SixDigit), MaxLuckySixDigit)
	assertDigits(t, got.TwoDigit, 2)
	assertDigits(t, got.ThreeDigit, 3)
	assertDigits(t, got.SixDigit, 6)
	for _, d := range got.SingleDigit {
		assert.True(t, d >= 0 && d <= 9)
	}
}
