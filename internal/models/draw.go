// Package models defines the core domain entities for the lottoracle application.
// These models represent lottery draw records, the analysis report derived from
// them, and the heuristic prediction sets produced from a report.
//
// Terminology:
//   - Draw: one lottery result (one row of the history file).
//   - Primary value: the 6-digit first prize of a draw.
//   - Prefix/suffix: the 3-digit front and back prizes; a draw has several of each.
package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// PrimaryLength is the number of characters in a well-formed first prize.
const PrimaryLength = 6

// DrawRecord represents a single historical draw. Records are created once by
// the parser and are never mutated afterwards; missing fields stay empty.
type DrawRecord struct {
	Date               string   `json:"date"`
	PrimaryValue       string   `json:"first_prize"`   // 6 digits when well formed
	ThreeDigitPrefixes []string `json:"3digit_prefix"` // ordered, may be empty
	ThreeDigitSuffixes []string `json:"3digit_suffix"` // ordered, may be empty
	TwoDigitValue      string   `json:"2digit"`
}

// HasValidPrimary reports whether the primary value is exactly six characters long.
// The characters themselves are not checked.
func (d *DrawRecord) HasValidPrimary() bool {
	return utf8.RuneCountInString(d.PrimaryValue) == PrimaryLength
}

// PrimaryRunes returns the primary value split into characters.
func (d *DrawRecord) PrimaryRunes() []rune {
	return []rune(d.PrimaryValue)
}

// PrefixField returns the prefixes joined the way they appear in a history file.
func (d *DrawRecord) PrefixField() string {
	return strings.Join(d.ThreeDigitPrefixes, " ")
}

// SuffixField returns the suffixes joined the way they appear in a history file.
func (d *DrawRecord) SuffixField() string {
	return strings.Join(d.ThreeDigitSuffixes, " ")
}

// Validate checks the minimum needed to store a draw fetched from a provider.
// Parsed history rows are never validated.
func (d *DrawRecord) Validate() error {
	if strings.TrimSpace(d.Date) == "" {
		return errors.New("draw date must not be empty")
	}
	if d.PrimaryValue != "" && !d.HasValidPrimary() {
		return errors.New("first prize must be 6 characters long")
	}
	return nil
}

// DigitValue parses a single ASCII decimal digit.
func DigitValue(r rune) (int, bool) {
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}
