package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// GapAnalysis reports, for every 6-character primary value seen at least
// twice, the record indices it occurred at and the mean distance between
// consecutive occurrences. Distances are index based, not date based.
func GapAnalysis(draws []models.DrawRecord) map[string]models.GapRecord {
	positions := make(map[string][]int)
	for i := range draws {
		if draws[i].HasValidPrimary() {
			v := draws[i].PrimaryValue
			positions[v] = append(positions[v], i)
		}
	}

	gaps := make(map[string]models.GapRecord)
	for value, indices := range positions {
		if len(indices) < 2 {
			continue
		}
		diffs := make([]float64, 0, len(indices)-1)
		for i := 1; i < len(indices); i++ {
			diffs = append(diffs, float64(indices[i]-indices[i-1]))
		}
		avg, err := stats.Mean(diffs)
		if err == nil {
			avg, err = stats.Round(avg, 2)
		}
		if err != nil {
			avg = 0
		}
		gaps[value] = models.GapRecord{
			Value:       value,
			Indices:     indices,
			Occurrences: len(indices),
			AverageGap:  avg,
			LastSeen:    len(draws) - indices[len(indices)-1],
		}
	}
	return gaps
}

// TransitionKey formats a directional digit pair.
func TransitionKey(from, to int) string {
	return fmt.Sprintf("%d->%d", from, to)
}

// DigitTransitions counts, for each pair of adjacent records whose primary
// values both have six characters, the positional digit pairs (previous,
// current). Positions where either character is not a digit are skipped.
func DigitTransitions(draws []models.DrawRecord) map[string]int {
	transitions := make(map[string]int)
	for i := 1; i < len(draws); i++ {
		prev, cur := &draws[i-1], &draws[i]
		if !prev.HasValidPrimary() || !cur.HasValidPrimary() {
			continue
		}
		pr, cr := prev.PrimaryRunes(), cur.PrimaryRunes()
		for pos := range pr {
			a, okA := models.DigitValue(pr[pos])
			b, okB := models.DigitValue(cr[pos])
			if okA && okB {
				transitions[TransitionKey(a, b)]++
			}
		}
	}
	return transitions
}
