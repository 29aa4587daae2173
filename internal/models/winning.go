package models

// Prize tiers recognized by the winning check.
const (
	PrizeFirst       = "first_prize"
	PrizeThreePrefix = "3digit_prefix"
	PrizeThreeSuffix = "3digit_suffix"
	PrizeTwoDigit    = "2digit"
)

// Prize amounts in baht.
const (
	AmountFirst    = 6000000
	AmountThree    = 4000
	AmountTwoDigit = 2000
)

// TicketCheck is the outcome for one ticket number.
type TicketCheck struct {
	Number   string `json:"number"`
	Prize    string `json:"prize,omitempty"`
	Amount   int    `json:"amount"`
	IsWinner bool   `json:"isWinner"`
}

// WinningCheck is the outcome of checking tickets against one draw.
type WinningCheck struct {
	Date   string        `json:"date"`
	Checks []TicketCheck `json:"checks"`
}

// Total returns the summed prize amount.
func (w WinningCheck) Total() int {
	total := 0
	for _, c := range w.Checks {
		total += c.Amount
	}
	return total
}
