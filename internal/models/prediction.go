package models

import (
	"errors"
	"time"
)

// AdvancedPredictions holds the output of the named heuristic generators.
// None of them is a trained model.
type AdvancedPredictions struct {
	MarkovChain   []string `json:"markovChain"`
	NeuralNetwork []string `json:"neuralNetwork"`
	Fibonacci     []string `json:"fibonacci"`
	PrimeNumbers  []string `json:"primeNumbers"`
}

// PredictionSet is one run of every heuristic generator over a report.
type PredictionSet struct {
	FirstPrize []string            `json:"firstPrize"`
	ThreeDigit []string            `json:"threeDigit"`
	TwoDigit   []string            `json:"twoDigit"`
	Advanced   AdvancedPredictions `json:"advanced"`
	Confidence float64             `json:"confidence"`
}

// SavedPrediction is a prediction set persisted by the user.
type SavedPrediction struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	Predictions PredictionSet `json:"predictions"`
	Confidence  float64       `json:"confidence"`
}

// Validate checks that a saved prediction can be persisted.
func (s *SavedPrediction) Validate() error {
	if s.ID == "" {
		return errors.New("saved prediction ID must not be empty")
	}
	if s.Date.IsZero() {
		return errors.New("saved prediction date must be set")
	}
	if s.Confidence < 0.0 || s.Confidence > 1.0 {
		return errors.New("confidence must be between 0.0 and 1.0")
	}
	return nil
}

// LuckySet blends personal numerology with draw statistics.
type LuckySet struct {
	Name        string   `json:"name"`
	BirthDate   string   `json:"birthDate"`
	SingleDigit []int    `json:"singleDigit"`
	TwoDigit    []string `json:"twoDigit"`
	ThreeDigit  []string `json:"threeDigit"`
	SixDigit    []string `json:"sixDigit"`
}

// NumerologyResult is the life-path / name-number calculation.
type NumerologyResult struct {
	LifePath     int      `json:"lifePath"`
	NameNumber   int      `json:"nameNumber"`
	LuckyNumbers []string `json:"luckyNumbers"`
}

// DreamInterpretation maps dream text to two-digit numbers.
type DreamInterpretation struct {
	Dream   string   `json:"dream"`
	Numbers []string `json:"numbers"`
	Matched []string `json:"matched,omitempty"` // dictionary keywords found in the text
}
