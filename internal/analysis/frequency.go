// Package analysis computes descriptive statistics over draw records.
//
// Every function here accepts arbitrary, possibly malformed records and never
// fails: values that cannot contribute to an aggregate are skipped, and an
// empty input produces zero-filled results.
package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// TopPatterns is the number of ranked tokens kept per n-gram table.
const TopPatterns = 20

// Hot/cold thresholds relative to the mean digit frequency.
const (
	hotFactor  = 1.2
	coldFactor = 0.8
)

// DigitFrequency counts digits of every 6-character primary value, globally
// and per position. Characters that are not digits are skipped.
func DigitFrequency(draws []models.DrawRecord) models.DigitFrequencyTable {
	var table models.DigitFrequencyTable
	for i := range draws {
		if !draws[i].HasValidPrimary() {
			continue
		}
		for pos, r := range draws[i].PrimaryRunes() {
			d, ok := models.DigitValue(r)
			if !ok {
				continue
			}
			table.DigitFreq[d]++
			table.PositionFreq[pos][d]++
		}
	}
	return table
}

// TokenSelector extracts the tokens a record contributes to a ranking.
type TokenSelector func(d *models.DrawRecord) []string

// TwoDigitTokens selects the two-digit value.
func TwoDigitTokens(d *models.DrawRecord) []string {
	return []string{d.TwoDigitValue}
}

// ThreeDigitTokens selects every prefix token followed by every suffix token.
func ThreeDigitTokens(d *models.DrawRecord) []string {
	out := make([]string, 0, len(d.ThreeDigitPrefixes)+len(d.ThreeDigitSuffixes))
	out = append(out, d.ThreeDigitPrefixes...)
	return append(out, d.ThreeDigitSuffixes...)
}

// RankTokens counts every non-empty token and returns at most limit entries,
// descending by count. Equal counts keep first-occurrence order.
func RankTokens(draws []models.DrawRecord, selector TokenSelector, limit int) []models.PatternCount {
	ranked := make([]models.PatternCount, 0)
	index := make(map[string]int)
	for i := range draws {
		for _, token := range selector(&draws[i]) {
			if token == "" {
				continue
			}
			if at, ok := index[token]; ok {
				ranked[at].Count++
				continue
			}
			index[token] = len(ranked)
			ranked = append(ranked, models.PatternCount{Token: token, Count: 1})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// NGramFrequency ranks the two-digit field (n = 2) or the three-digit prefix
// and suffix fields (n = 3). Any other n yields an empty ranking.
func NGramFrequency(draws []models.DrawRecord, n int) []models.PatternCount {
	switch n {
	case 2:
		return RankTokens(draws, TwoDigitTokens, TopPatterns)
	case 3:
		return RankTokens(draws, ThreeDigitTokens, TopPatterns)
	default:
		return []models.PatternCount{}
	}
}

// HotCold classifies digits against the mean of the ten global counts.
func HotCold(table models.DigitFrequencyTable) models.HotColdNumbers {
	freqs := make([]float64, len(table.DigitFreq))
	for d, c := range table.DigitFreq {
		freqs[d] = float64(c)
	}
	mean, err := stats.Mean(freqs)
	if err != nil {
		mean = 0
	}

	result := models.HotColdNumbers{
		Hot:     []models.DigitCount{},
		Cold:    []models.DigitCount{},
		AvgFreq: mean,
	}
	for d, c := range table.DigitFreq {
		f := float64(c)
		switch {
		case f > mean*hotFactor:
			result.Hot = append(result.Hot, models.DigitCount{Digit: d, Frequency: c})
		case f < mean*coldFactor:
			result.Cold = append(result.Cold, models.DigitCount{Digit: d, Frequency: c})
		}
	}
	return result
}
