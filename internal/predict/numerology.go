package predict

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// Numerology computes the life-path and name numbers and five two-digit
// lucky numbers derived from them.
func Numerology(name string, birth time.Time) models.NumerologyResult {
	lifePath := reduceMaster(birth.Day() + int(birth.Month()) + birth.Year())

	nameValue := 0
	for _, r := range compactName(name) {
		v := int(firstCodeUnit(r)) % 9
		if v == 0 {
			v = 9
		}
		nameValue += v
	}
	nameNumber := reduceMaster(nameValue)

	return models.NumerologyResult{
		LifePath:   lifePath,
		NameNumber: nameNumber,
		LuckyNumbers: []string{
			pad(lifePath, 2),
			pad(nameNumber, 2),
			pad(lifePath*11, 2),
			pad(nameNumber*11, 2),
			pad((lifePath+nameNumber)*7, 2),
		},
	}
}

// reduceMaster sums digits until a single digit remains, stopping early at
// the master numbers 11 and 22.
func reduceMaster(n int) int {
	for n > 9 && n != 11 && n != 22 {
		n = digitSum(n)
	}
	return n
}

// reduce sums digits until a single digit remains.
func reduce(n int) int {
	for n > 9 {
		n = digitSum(n)
	}
	return n
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// compactName lowercases a name and removes all whitespace.
func compactName(name string) []rune {
	out := make([]rune, 0, len(name))
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}

// firstCodeUnit returns the first UTF-16 code unit of r.
func firstCodeUnit(r rune) uint16 {
	return utf16.Encode([]rune{r})[0]
}

// pad formats the last width digits of n, zero padded.
func pad(n, width int) string {
	mod := 1
	for i := 0; i < width; i++ {
		mod *= 10
	}
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%0*d", width, n%mod)
}
