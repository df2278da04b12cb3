// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// CurrencyEUR is the only currency the service charges in.
const CurrencyEUR = "EUR"

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// EUR builds a euro amount from cents.
func EUR(cents int64) Money {
	return Money{Amount: cents, Currency: CurrencyEUR}
}

// FromEuros converts a euro value to cents, rounding half-up on the cent.
func FromEuros(v float64) Money {
	return EUR(int64(math.Floor(v*100 + 0.5)))
}

// Euros returns the amount in major units.
func (m Money) Euros() float64 {
	return float64(m.Amount) / 100
}

// String renders the amount the way booking summaries show it, e.g. "€40.00".
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s€%d.%02d", sign, amount/100, amount%100)
}
