package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
)

// TimeBased counts draws by month (0 = January) and weekday (0 = Sunday).
// Records whose date cannot be parsed are skipped.
func TimeBased(draws []models.DrawRecord) models.TimeBasedAnalysis {
	result := models.TimeBasedAnalysis{
		MonthlyFreq:   make(map[int]int),
		DayOfWeekFreq: make(map[int]int),
	}
	for i := range draws {
		t, ok := records.ParseDate(draws[i].Date)
		if !ok {
			continue
		}
		result.MonthlyFreq[int(t.Month())-1]++
		result.DayOfWeekFreq[int(t.Weekday())]++
	}
	return result
}

// SumSummary describes the digit-sum histogram. An empty histogram yields
// the zero summary.
func SumSummary(counters models.PatternCounters) models.SumSummary {
	sums := make([]int, 0, len(counters.SumPatterns))
	for sum := range counters.SumPatterns {
		sums = append(sums, sum)
	}
	sort.Ints(sums)

	data := make(stats.Float64Data, 0)
	for _, sum := range sums {
		for n := 0; n < counters.SumPatterns[sum]; n++ {
			data = append(data, float64(sum))
		}
	}
	if len(data) == 0 {
		return models.SumSummary{}
	}

	mean, _ := data.Mean()
	median, _ := data.Median()
	stdDev, _ := data.StandardDeviation()
	return models.SumSummary{
		Draws:  len(data),
		Mean:   round2(mean),
		Median: median,
		StdDev: round2(stdDev),
		Min:    sums[0],
		Max:    sums[len(sums)-1],
	}
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	return r
}
