package predict

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/rng"
)

// Display limits for a lucky set.
const (
	MaxLuckyTwoDigit   = 5
	MaxLuckyThreeDigit = 4
	MaxLuckySixDigit   = 5
)

const buddhistEraOffset = 543

var (
	thaiAlphabet    = []rune("กขฃคฅฆงจฉชซฌญฎฏฐฑฒณดตถทธนบปผฝพฟภมยรลวศษสหฬอฮ")
	englishAlphabet = []rune("abcdefghijklmnopqrstuvwxyz")
)

// NameValue sums the alphabet positions (1-based) of the Thai consonants and
// English letters in name. Other characters count as zero.
func NameValue(name string) int {
	total := 0
	for _, r := range compactName(name) {
		if i := indexRune(thaiAlphabet, r); i >= 0 {
			total += i + 1
		} else if i := indexRune(englishAlphabet, r); i >= 0 {
			total += i + 1
		}
	}
	return total
}

func indexRune(alphabet []rune, r rune) int {
	for i, a := range alphabet {
		if a == r {
			return i
		}
	}
	return -1
}

// nameNumbers are the personal numbers derived from a name.
type nameNumbers struct {
	single int
	two    string
	three  string
	six    string
}

func newNameNumbers(name string) nameNumbers {
	v := NameValue(name)
	return nameNumbers{
		single: reduce(v),
		two:    pad(v, 2),
		three:  pad(v, 3),
		six:    pad(v, 6),
	}
}

// birthNumbers are the personal numbers derived from a birth date.
type birthNumbers struct {
	lifePath int
	dayMonth string
	dmy      string
	buddhist string
	age      string
}

func newBirthNumbers(birth, now time.Time) birthNumbers {
	day, month, year := birth.Day(), int(birth.Month()), birth.Year()

	dmy, _ := strconv.Atoi(fmt.Sprintf("%d%d%d", day, month, year%100))
	age := now.Year() - year
	if age < 0 {
		age = 0
	}
	return birthNumbers{
		lifePath: reduce(day + month + year),
		dayMonth: pad(day*10+month, 2),
		dmy:      pad(dmy, 3),
		buddhist: fmt.Sprintf("%02d%02d%02d", day, month, (year+buddhistEraOffset)%100),
		age:      pad(age, 2),
	}
}

// Lucky blends name and birth-date numerology with the report's hot digits
// and top patterns. now is the reference date for the age number.
func Lucky(name string, birth time.Time, report models.AnalysisReport, now time.Time, src rng.Source) models.LuckySet {
	nn := newNameNumbers(name)
	bn := newBirthNumbers(birth, now)
	hot := report.HotColdNumbers.HotDigits()

	singles := []int{nn.single, bn.lifePath}
	if len(hot) > 3 {
		singles = append(singles, hot[:3]...)
	} else {
		singles = append(singles, hot...)
	}

	two := []string{nn.two, bn.dayMonth, bn.age}
	for _, pc := range head(report.Top2Digits, 2) {
		two = append(two, pc.Token)
	}

	three := []string{nn.three, bn.dmy}
	for _, pc := range head(report.Top3Digits, 2) {
		three = append(three, pc.Token)
	}

	six := []string{nn.six, bn.buddhist}
	pool := append(append([]int{}, singles...), hot...)
	for i := 0; i < 3; i++ {
		var b strings.Builder
		for j := 0; j < models.PrimaryLength; j++ {
			b.WriteString(digitString(pool[src.Intn(len(pool))]))
		}
		six = append(six, b.String())
	}

	return models.LuckySet{
		Name:        strings.TrimSpace(name),
		BirthDate:   birth.Format("2006-01-02"),
		SingleDigit: uniqueInts(singles),
		TwoDigit:    uniqueLimit(two, MaxLuckyTwoDigit),
		ThreeDigit:  uniqueLimit(three, MaxLuckyThreeDigit),
		SixDigit:    uniqueLimit(six, MaxLuckySixDigit),
	}
}

func uniqueInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
