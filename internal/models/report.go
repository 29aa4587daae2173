package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DigitFrequencyTable holds global and positional digit counts over valid
// 6-character first prizes.
type DigitFrequencyTable struct {
	DigitFreq    [10]int                `json:"digitFreq"`
	PositionFreq [PrimaryLength][10]int `json:"positionFreq"`
}

// Total returns the sum of the global digit counts.
func (t DigitFrequencyTable) Total() int {
	total := 0
	for _, c := range t.DigitFreq {
		total += c
	}
	return total
}

// PatternCount is a token with its occurrence count. It marshals to a JSON pair
// ["token", count] because rendering code indexes entries positionally.
type PatternCount struct {
	Token string
	Count int
}

// MarshalJSON encodes the pair as a two-element array.
func (p PatternCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Token, p.Count})
}

// UnmarshalJSON decodes a two-element array.
func (p *PatternCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("pattern count must be a pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Token); err != nil {
		return fmt.Errorf("pattern token: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Count); err != nil {
		return fmt.Errorf("pattern count: %w", err)
	}
	return nil
}

// OddEven counts first prizes by the parity of their last digit.
type OddEven struct {
	Odd  int `json:"odd"`
	Even int `json:"even"`
}

// PatternCounters aggregates per-draw pattern flags.
type PatternCounters struct {
	Consecutive      int         `json:"consecutive"`
	Repeated         int         `json:"repeated"`
	SumPatterns      map[int]int `json:"sumPatterns"` // digit sum (0-54) -> draws
	LastDigitOddEven OddEven     `json:"lastDigitOddEven"`
}

// DigitCount pairs a digit with its global frequency.
type DigitCount struct {
	Digit     int `json:"digit"`
	Frequency int `json:"frequency"`
}

// HotColdNumbers classifies digits relative to the mean digit frequency.
type HotColdNumbers struct {
	Hot     []DigitCount `json:"hot"`
	Cold    []DigitCount `json:"cold"`
	AvgFreq float64      `json:"avgFreq"`
}

// HotDigits returns the hot digits in ascending order.
func (h HotColdNumbers) HotDigits() []int {
	return digitsOf(h.Hot)
}

// ColdDigits returns the cold digits in ascending order.
func (h HotColdNumbers) ColdDigits() []int {
	return digitsOf(h.Cold)
}

func digitsOf(counts []DigitCount) []int {
	digits := make([]int, len(counts))
	for i, c := range counts {
		digits[i] = c.Digit
	}
	return digits
}

// GapRecord describes how often an identical first prize repeats.
type GapRecord struct {
	Value       string  `json:"value"`
	Indices     []int   `json:"indices"`
	Occurrences int     `json:"occurrences"`
	AverageGap  float64 `json:"avgGap"`   // rounded to 2 decimals
	LastSeen    int     `json:"lastSeen"` // records between last occurrence and end of table
}

// TimeBasedAnalysis counts draws by calendar month (1-12) and weekday (0 = Sunday).
type TimeBasedAnalysis struct {
	MonthlyFreq   map[int]int `json:"monthlyFreq"`
	DayOfWeekFreq map[int]int `json:"dayOfWeekFreq"`
}

// SumSummary is a descriptive summary of the digit-sum distribution.
type SumSummary struct {
	Draws  int     `json:"draws"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// AdvancedStats groups the derived statistics consumed by the heuristic generators.
type AdvancedStats struct {
	DigitTransitions map[string]int       `json:"digitTransitions"`
	GapAnalysis      map[string]GapRecord `json:"gapAnalysis"`
	SumSummary       SumSummary           `json:"sumSummary"`
}

// AnalysisReport is an immutable snapshot of every statistic computed over one
// record sequence. Field names are part of the rendering contract.
type AnalysisReport struct {
	TotalRecords      int                 `json:"totalRecords"`
	DigitFrequency    DigitFrequencyTable `json:"digitFrequency"`
	Top2Digits        []PatternCount      `json:"top2Digits"`
	Top3Digits        []PatternCount      `json:"top3Digits"`
	Patterns          PatternCounters     `json:"patterns"`
	TimeBasedAnalysis TimeBasedAnalysis   `json:"timeBasedAnalysis"`
	HotColdNumbers    HotColdNumbers      `json:"hotColdNumbers"`
	AdvancedStats     AdvancedStats       `json:"advancedStats"`
	Confidence        float64             `json:"confidence"`
	GeneratedAt       time.Time           `json:"generatedAt"`
}
