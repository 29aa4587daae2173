package records

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// buddhistEraOffset converts a Buddhist-era year to the Gregorian calendar.
const buddhistEraOffset = 543

// ParseDate parses a draw date in any common layout. Years written in the
// Buddhist era (greater than 2400) are shifted back to the Gregorian year.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() > 2400 {
		t = t.AddDate(-buddhistEraOffset, 0, 0)
	}
	return t, true
}

// Merge adds incoming records to an existing set, matching them by date.
// Existing records are kept as they are, including any that share a date.
// An incoming record whose date is already present overwrites the first
// record with that date when replace is true and is dropped otherwise.
// It returns the merged set ordered newest first, with records whose date
// cannot be parsed kept at the end in their merged order, and the number of
// incoming records that were appended.
func Merge(existing, incoming []models.DrawRecord, replace bool) ([]models.DrawRecord, int) {
	merged := make([]models.DrawRecord, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(existing)+len(incoming))
	for i, d := range existing {
		if _, ok := index[d.Date]; !ok {
			index[d.Date] = i
		}
	}

	added := 0
	for _, d := range incoming {
		if i, ok := index[d.Date]; ok {
			if replace {
				merged[i] = d
			}
			continue
		}
		index[d.Date] = len(merged)
		merged = append(merged, d)
		added++
	}

	SortNewestFirst(merged)
	return merged, added
}

// SortNewestFirst orders records by descending date in place. The sort is
// stable and unparseable dates sort last.
func SortNewestFirst(draws []models.DrawRecord) {
	keys := make([]time.Time, len(draws))
	ok := make([]bool, len(draws))
	for i := range draws {
		keys[i], ok[i] = ParseDate(draws[i].Date)
	}

	idx := make([]int, len(draws))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if ok[ia] != ok[ib] {
			return ok[ia]
		}
		return keys[ia].After(keys[ib])
	})

	sorted := make([]models.DrawRecord, len(draws))
	for i, j := range idx {
		sorted[i] = draws[j]
	}
	copy(draws, sorted)
}
