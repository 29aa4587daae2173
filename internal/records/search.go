package records

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// ErrDrawNotFound is returned when no record carries the requested date.
var ErrDrawNotFound = errors.New("draw not found")

// Search returns records where any field contains number as a substring.
// An empty number matches every record.
func Search(draws []models.DrawRecord, number string) []models.DrawRecord {
	number = strings.TrimSpace(number)
	out := make([]models.DrawRecord, 0, len(draws))
	for _, d := range draws {
		if number == "" || contains(d, number) {
			out = append(out, d)
		}
	}
	return out
}

// Filter narrows records to a calendar month given as YYYY-MM and to those
// matching number. Empty arguments disable the corresponding filter; a month
// that cannot be parsed matches nothing.
func Filter(draws []models.DrawRecord, month, number string) []models.DrawRecord {
	month = strings.TrimSpace(month)
	if month == "" {
		return Search(draws, number)
	}

	want, ok := ParseDate(month + "-01")
	if !ok {
		return []models.DrawRecord{}
	}
	out := make([]models.DrawRecord, 0)
	for _, d := range Search(draws, number) {
		t, ok := ParseDate(d.Date)
		if ok && t.Year() == want.Year() && t.Month() == want.Month() {
			out = append(out, d)
		}
	}
	return out
}

func contains(d models.DrawRecord, number string) bool {
	for _, field := range []string{d.Date, d.PrimaryValue, d.PrefixField(), d.SuffixField(), d.TwoDigitValue} {
		if strings.Contains(field, number) {
			return true
		}
	}
	return false
}

// FindByDate returns the record drawn on date.
func FindByDate(draws []models.DrawRecord, date string) (models.DrawRecord, error) {
	for _, d := range draws {
		if d.Date == date {
			return d, nil
		}
	}
	return models.DrawRecord{}, fmt.Errorf("%w: %s", ErrDrawNotFound, date)
}

// CheckWinning checks ticket numbers against the draw held on date. A ticket
// wins at most one tier, tried from the first prize downwards; the number must
// equal a drawn value exactly.
func CheckWinning(draws []models.DrawRecord, numbers []string, date string) (models.WinningCheck, error) {
	draw, err := FindByDate(draws, date)
	if err != nil {
		return models.WinningCheck{}, err
	}

	result := models.WinningCheck{Date: date, Checks: make([]models.TicketCheck, 0, len(numbers))}
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		check := models.TicketCheck{Number: n}
		switch {
		case len(n) == models.PrimaryLength && n == draw.PrimaryValue:
			check.Prize, check.Amount = models.PrizeFirst, models.AmountFirst
		case len(n) == 3 && slices.Contains(draw.ThreeDigitPrefixes, n):
			check.Prize, check.Amount = models.PrizeThreePrefix, models.AmountThree
		case len(n) == 3 && slices.Contains(draw.ThreeDigitSuffixes, n):
			check.Prize, check.Amount = models.PrizeThreeSuffix, models.AmountThree
		case len(n) == 2 && n == draw.TwoDigitValue:
			check.Prize, check.Amount = models.PrizeTwoDigit, models.AmountTwoDigit
		}
		check.IsWinner = check.Prize != ""
		result.Checks = append(result.Checks, check)
	}
	return result, nil
}
