// Package records turns history files into draw records and back.
//
// Parsing never rejects input. Every data line becomes a record, short rows
// are padded with empty values, and neither dates nor digits are validated
// here; analysis code decides what to exclude.
package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const bom = "\ufeff"

// Parse converts delimited history text into draw records. The first line
// names the fields; empty or whitespace-only input yields an empty sequence.
func Parse(text string) []models.DrawRecord {
	text = strings.TrimPrefix(text, bom)
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.DrawRecord{}
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = splitLine(strings.TrimRight(line, "\r"))
	}
	return fromRows(rows)
}

// ParseReader reads the whole input and parses it with Parse.
func ParseReader(r io.Reader) ([]models.DrawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return Parse(string(data)), nil
}

// splitLine splits one line with CSV quoting rules. A line whose quoting
// cannot be parsed falls back to a plain comma split so it is never dropped.
func splitLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err == io.EOF {
		return []string{""}
	}
	if err != nil {
		fields = strings.Split(line, ",")
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// fromRows maps raw rows (header first) onto fixed-shape records.
func fromRows(rows [][]string) []models.DrawRecord {
	if len(rows) == 0 {
		return []models.DrawRecord{}
	}

	cm := newColumnMap(rows[0])
	out := make([]models.DrawRecord, 0, len(rows)-1)
	for _, values := range rows[1:] {
		trimmed := make([]string, len(values))
		for i, v := range values {
			trimmed[i] = strings.TrimSpace(v)
		}
		out = append(out, models.DrawRecord{
			Date:               cm.lookup(FieldDate, trimmed),
			PrimaryValue:       cm.lookup(FieldPrimary, trimmed),
			ThreeDigitPrefixes: SplitTokens(cm.lookup(FieldPrefix, trimmed)),
			ThreeDigitSuffixes: SplitTokens(cm.lookup(FieldSuffix, trimmed)),
			TwoDigitValue:      cm.lookup(FieldTwoDigit, trimmed),
		})
	}
	return out
}

// SplitTokens splits a multi-value field on runs of commas and whitespace.
func SplitTokens(s string) []string {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if tokens == nil {
		return []string{}
	}
	return tokens
}
