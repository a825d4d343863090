package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of decimal places kept by Amount (centavos).
const MinorUnitDigits = 2

// Amount is a signed monetary value in minor currency units.
type Amount int64

// ParseAmount parses a decimal string such as "-1485.00" or "15000" into minor units.
// Values with more precision than MinorUnitDigits are rejected rather than rounded.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("could not parse amount '%s': %w", s, err)
	}
	shifted := d.Shift(MinorUnitDigits)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount '%s' has more than %d decimal places", s, MinorUnitDigits)
	}
	if shifted.Abs().GreaterThan(decimal.NewFromInt(1<<62)) {
		return 0, fmt.Errorf("amount '%s' is out of range", s)
	}
	return AmountFromDecimal(d), nil
}

// MustParseAmount is ParseAmount for literals known to be valid.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromDecimal converts a decimal value, truncating anything below one minor unit.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(MinorUnitDigits).IntPart())
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -MinorUnitDigits)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(MinorUnitDigits)
}

func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

func (a Amount) Sign() int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

// MarshalJSON renders the amount as a quoted decimal string, e.g. "-15.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
