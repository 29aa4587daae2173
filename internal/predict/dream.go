package predict

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// MaxDreamNumbers caps the numbers returned for one dream.
const MaxDreamNumbers = 5

type dreamEntry struct {
	keyword string
	numbers []string
}

// dreamBook maps dream keywords to two-digit numbers. Order decides which
// numbers come first when several keywords match.
var dreamBook = []dreamEntry{
	{"งู", []string{"01", "21", "41", "61", "81"}},
	{"น้ำ", []string{"02", "22", "42", "62", "82"}},
	{"ทอง", []string{"16", "61", "86", "96", "56"}},
	{"ไฟ", []string{"07", "27", "47", "67", "87"}},
	{"ต้นไม้", []string{"08", "38", "88", "58", "98"}},
	{"รถ", []string{"04", "24", "84", "64", "94"}},
	{"บ้าน", []string{"03", "33", "83", "63", "93"}},
	{"เงิน", []string{"15", "51", "95", "75", "35"}},
	{"คน", []string{"09", "29", "49", "69", "89"}},
	{"สัตว์", []string{"10", "30", "50", "70", "90"}},
}

// DreamKeywords lists the keywords the dream book recognizes.
func DreamKeywords() []string {
	out := make([]string, len(dreamBook))
	for i, e := range dreamBook {
		out[i] = e.keyword
	}
	return out
}

// InterpretDream maps dream text to two-digit numbers. Text mentioning no
// known keyword is hashed into three numbers so the same text always gets
// the same answer. Blank text yields no numbers.
func InterpretDream(text string) models.DreamInterpretation {
	text = norm.NFC.String(strings.TrimSpace(text))
	result := models.DreamInterpretation{Dream: text, Numbers: []string{}}
	if text == "" {
		return result
	}

	var numbers []string
	for _, e := range dreamBook {
		if strings.Contains(text, norm.NFC.String(e.keyword)) {
			result.Matched = append(result.Matched, e.keyword)
			numbers = append(numbers, e.numbers...)
		}
	}

	if len(numbers) == 0 {
		h := int64(stringHash(text))
		numbers = []string{pad(int(h%100), 2), pad(int((h*7)%100), 2), pad(int((h*13)%100), 2)}
	}

	result.Numbers = uniqueLimit(numbers, MaxDreamNumbers)
	return result
}

// stringHash is the 32-bit polynomial hash (multiplier 31) over UTF-16 code units.
func stringHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}
