package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
)

const sampleCSV = "date,first_prize,3digit_prefix,3digit_suffix,2digit\n" +
	"2024-01-01,112233,111 222,333 444,55\n" +
	"2024-01-16,223344,222 333,444 555,66"

func primaries(values ...string) []models.DrawRecord {
	out := make([]models.DrawRecord, len(values))
	for i, v := range values {
		out[i] = models.DrawRecord{PrimaryValue: v}
	}
	return out
}

func TestDigitFrequency_Sample(t *testing.T) {
	table := DigitFrequency(records.Parse(sampleCSV))

	assert.Equal(t, 12, table.Total())
	assert.Equal(t, [10]int{0, 2, 4, 4, 2, 0, 0, 0, 0, 0}, table.DigitFreq)
	assert.Equal(t, 2, table.PositionFreq[0][1]+table.PositionFreq[0][2])
	assert.Equal(t, 1, table.PositionFreq[5][3])
	assert.Equal(t, 1, table.PositionFreq[5][4])
}

func TestDigitFrequency_SkipsInvalid(t *testing.T) {
	draws := primaries("12a456", "12345", "1234567", "", "๑๒๓๔๕๖", "000000")
	table := DigitFrequency(draws)

	// Three 6-character values, one non-digit in the first and six in the Thai one.
	assert.Equal(t, 6*3-1-6, table.Total())
	assert.Equal(t, 6, table.DigitFreq[0])
	assert.Equal(t, 0, table.PositionFreq[2][3])
	for pos := range table.PositionFreq {
		sum := 0
		for _, c := range table.PositionFreq[pos] {
			sum += c
		}
		assert.LessOrEqual(t, sum, 3)
	}
}

func TestEmptyDataset(t *testing.T) {
	for _, draws := range [][]models.DrawRecord{nil, primaries("abc", "")} {
		report := Build(draws)
		assert.Equal(t, len(draws), report.TotalRecords)
		assert.Zero(t, report.DigitFrequency.Total())
		assert.Empty(t, report.HotColdNumbers.Hot)
		assert.Empty(t, report.HotColdNumbers.Cold)
		assert.Zero(t, report.HotColdNumbers.AvgFreq)
		assert.Empty(t, report.Top2Digits)
		assert.Empty(t, report.Top3Digits)
		assert.Zero(t, report.Patterns.Consecutive)
		assert.Zero(t, report.Patterns.Repeated)
		assert.Empty(t, report.Patterns.SumPatterns)
		assert.Empty(t, report.AdvancedStats.GapAnalysis)
		assert.Empty(t, report.AdvancedStats.DigitTransitions)
		assert.Equal(t, models.SumSummary{}, report.AdvancedStats.SumSummary)
		assert.Equal(t, 0.2, report.Confidence)
	}
}

func TestNGramFrequency_Sample(t *testing.T) {
	draws := records.Parse(sampleCSV)

	assert.Equal(t, []models.PatternCount{{Token: "55", Count: 1}, {Token: "66", Count: 1}}, NGramFrequency(draws, 2))
	assert.Equal(t, []models.PatternCount{
		{Token: "222", Count: 2},
		{Token: "333", Count: 2},
		{Token: "444", Count: 2},
		{Token: "111", Count: 1},
		{Token: "555", Count: 1},
	}, NGramFrequency(draws, 3))
	assert.Empty(t, NGramFrequency(draws, 4))
}

func TestRankTokens_StableAndTruncated(t *testing.T) {
	var draws []models.DrawRecord
	for i := 0; i < 30; i++ {
		draws = append(draws, models.DrawRecord{TwoDigitValue: []string{"07", "42", "13"}[i%3]})
	}
	for i := 0; i < 25; i++ {
		draws = append(draws, models.DrawRecord{TwoDigitValue: string(rune('a'+i)) + "x"})
	}
	draws = append(draws, models.DrawRecord{TwoDigitValue: ""})

	ranked := NGramFrequency(draws, 2)
	require.Len(t, ranked, TopPatterns)
	assert.Equal(t, "07", ranked[0].Token)
	assert.Equal(t, "42", ranked[1].Token)
	assert.Equal(t, "13", ranked[2].Token)
	assert.Equal(t, "ax", ranked[3].Token)
	assert.Equal(t, "qx", ranked[19].Token)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Count, ranked[i].Count)
	}
}

func TestRankTokens_NoLimit(t *testing.T) {
	draws := records.Parse(sampleCSV)
	assert.Len(t, RankTokens(draws, ThreeDigitTokens, -1), 5)
	assert.Len(t, RankTokens(draws, ThreeDigitTokens, 2), 2)
}

func TestHotCold(t *testing.T) {
	table := DigitFrequency(records.Parse(sampleCSV))
	hc := HotCold(table)

	assert.InDelta(t, 1.2, hc.AvgFreq, 1e-9)
	assert.Equal(t, []int{1, 2, 3, 4}, hc.HotDigits())
	assert.Equal(t, []int{0, 5, 6, 7, 8, 9}, hc.ColdDigits())
	assert.Equal(t, models.DigitCount{Digit: 2, Frequency: 4}, hc.Hot[1])
}

func TestHotCold_UniformIsNeither(t *testing.T) {
	var table models.DigitFrequencyTable
	for d := range table.DigitFreq {
		table.DigitFreq[d] = 7
	}
	hc := HotCold(table)
	assert.Empty(t, hc.Hot)
	assert.Empty(t, hc.Cold)
	assert.Equal(t, 7.0, hc.AvgFreq)
}

func TestClassifyDraw(t *testing.T) {
	tests := []struct {
		value string
		want  DrawPattern
		valid bool
	}{
		{"112233", DrawPattern{Consecutive: true, Repeated: true, Sum: 12, HasSum: true, LastDigit: 3, HasParity: true}, true},
		{"975310", DrawPattern{Sum: 25, HasSum: true, LastDigit: 0, HasParity: true}, true},
		{"135789", DrawPattern{Consecutive: true, Sum: 33, HasSum: true, LastDigit: 9, HasParity: true}, true},
		{"12a456", DrawPattern{Consecutive: true, LastDigit: 6, HasParity: true}, true},
		{"98765a", DrawPattern{}, true},
		{"12345", DrawPattern{}, false},
		{"", DrawPattern{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ClassifyDraw(tt.value)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectPatterns_Sample(t *testing.T) {
	counters := DetectPatterns(records.Parse(sampleCSV))

	assert.Equal(t, 2, counters.Consecutive)
	assert.Equal(t, 2, counters.Repeated)
	assert.Equal(t, map[int]int{12: 1, 18: 1}, counters.SumPatterns)
	assert.Equal(t, models.OddEven{Odd: 1, Even: 1}, counters.LastDigitOddEven)
}

func TestDetectPatterns_ParityOncePerValidRecord(t *testing.T) {
	draws := primaries("123457", "000000", "999998", "12345", "abcdef", "98765a")
	counters := DetectPatterns(draws)

	assert.Equal(t, 5, counters.LastDigitOddEven.Odd+counters.LastDigitOddEven.Even)
	assert.Equal(t, models.OddEven{Odd: 3, Even: 2}, counters.LastDigitOddEven, "a non-digit last character counts as odd")
	assert.Equal(t, 2, counters.Repeated)
	assert.Equal(t, map[int]int{22: 1, 0: 1, 53: 1}, counters.SumPatterns)
}

func TestGapAnalysis(t *testing.T) {
	values := []string{"000001", "000002", "123456", "000003", "000004", "123456", "000005", "000006", "000007", "123456"}
	gaps := GapAnalysis(primaries(values...))

	require.Len(t, gaps, 1)
	g := gaps["123456"]
	assert.Equal(t, []int{2, 5, 9}, g.Indices)
	assert.Equal(t, 3, g.Occurrences)
	assert.Equal(t, 3.5, g.AverageGap)
	assert.Equal(t, 1, g.LastSeen)
}

func TestGapAnalysis_RoundsAndSkipsInvalid(t *testing.T) {
	draws := primaries("111111", "12", "12", "111111", "111111", "111111")
	gaps := GapAnalysis(draws)

	require.Len(t, gaps, 1)
	assert.NotContains(t, gaps, "12")
	// Differences 3, 1, 1 average to 1.666...
	assert.Equal(t, 1.67, gaps["111111"].AverageGap)
	assert.Equal(t, 1, gaps["111111"].LastSeen)
}

func TestDigitTransitions(t *testing.T) {
	transitions := DigitTransitions(records.Parse(sampleCSV))
	assert.Equal(t, map[string]int{"1->2": 2, "2->3": 2, "3->4": 2}, transitions)
}

func TestDigitTransitions_SkipsInvalidAdjacency(t *testing.T) {
	draws := primaries("111111", "12345", "222222", "2a2222")
	transitions := DigitTransitions(draws)
	assert.Equal(t, map[string]int{"2->2": 5}, transitions)
}

func TestTimeBased(t *testing.T) {
	draws := []models.DrawRecord{
		{Date: "2024-01-01"},
		{Date: "2024-01-16"},
		{Date: "2567-02-01"},
		{Date: "unknown"},
		{Date: ""},
	}
	tb := TimeBased(draws)

	// January is 0.
	assert.Equal(t, map[int]int{0: 2, 1: 1}, tb.MonthlyFreq)
	// Monday, Tuesday, Thursday.
	assert.Equal(t, map[int]int{1: 1, 2: 1, 4: 1}, tb.DayOfWeekFreq)
}

func TestSumSummary(t *testing.T) {
	s := SumSummary(models.PatternCounters{SumPatterns: map[int]int{12: 1, 18: 1}})
	assert.Equal(t, models.SumSummary{Draws: 2, Mean: 15, Median: 15, StdDev: 3, Min: 12, Max: 18}, s)
}

func TestConfidence(t *testing.T) {
	tests := map[int]float64{0: 0.2, 5: 0.2, 9: 0.2, 10: 0.5, 30: 0.5, 49: 0.5, 50: 0.7, 75: 0.7, 99: 0.7, 100: 0.85, 500: 0.85}
	for n, want := range tests {
		assert.Equal(t, want, Confidence(n), "records=%d", n)
	}
}

func TestBuild_ReportContract(t *testing.T) {
	fixed := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	b := &Builder{Now: func() time.Time { return fixed }}
	report := b.Build(records.Parse(sampleCSV))

	assert.Equal(t, 2, report.TotalRecords)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, 15.0, report.AdvancedStats.SumSummary.Mean)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))

	digitFreq := generic["digitFrequency"].(map[string]interface{})["digitFreq"].([]interface{})
	assert.Len(t, digitFreq, 10)
	assert.Equal(t, 2.0, generic["patterns"].(map[string]interface{})["consecutive"])

	top3 := generic["top3Digits"].([]interface{})
	assert.Equal(t, []interface{}{"222", 2.0}, top3[0])

	hot := generic["hotColdNumbers"].(map[string]interface{})["hot"].([]interface{})
	assert.Equal(t, map[string]interface{}{"digit": 1.0, "frequency": 2.0}, hot[0])

	for _, key := range []string{"totalRecords", "top2Digits", "timeBasedAnalysis", "advancedStats", "confidence", "generatedAt"} {
		assert.Contains(t, generic, key)
	}
}
