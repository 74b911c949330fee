// Package money implements the fixed-point currency amounts campaigns
// are funded in. Amounts are integer minor units (cents); arithmetic
// never touches binary floating point.
package money

import (
	"strconv"
	"strings"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
)

// Money is a currency-tagged minor-unit amount. The JSON shape is
// {"amount_minor_units": 285000, "currency": "USD"} on every wire
// surface; a floating-point rendition is never produced.
type Money struct {
	AmountMinorUnits int64          `json:"amount_minor_units"`
	Currency         enums.Currency `json:"currency"`
}

// New validates and builds a Money value. Negative amounts and
// unrecognized currencies are rejected.
func New(amountMinorUnits int64, currency enums.Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized currency").
			WithDetails(map[string]any{"currency": string(currency)})
	}
	if amountMinorUnits < 0 {
		return Money{}, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount must not be negative").
			WithDetails(map[string]any{"amount_minor_units": amountMinorUnits})
	}
	return Money{AmountMinorUnits: amountMinorUnits, Currency: currency}, nil
}

// MustNew is a construction helper for values known valid at compile
// time (seed data, tests). It panics on invalid input.
func MustNew(amountMinorUnits int64, currency enums.Currency) Money {
	m, err := New(amountMinorUnits, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency enums.Currency) Money {
	return Money{AmountMinorUnits: 0, Currency: currency}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.AmountMinorUnits > 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.AmountMinorUnits == 0
}

// SameCurrency reports whether both values share a currency.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// Add returns m + other. Mixing currencies fails.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, currencyMismatch(m, other)
	}
	return Money{AmountMinorUnits: m.AmountMinorUnits + other.AmountMinorUnits, Currency: m.Currency}, nil
}

// Sub returns m - other. Mixing currencies or going negative fails.
func (m Money) Sub(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, currencyMismatch(m, other)
	}
	result := m.AmountMinorUnits - other.AmountMinorUnits
	if result < 0 {
		return Money{}, pkgerrors.New(pkgerrors.CodeInvalidAmount, "subtraction result must not be negative")
	}
	return Money{AmountMinorUnits: result, Currency: m.Currency}, nil
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, 1 if m > other.
// Mixing currencies fails.
func (m Money) Cmp(other Money) (int, error) {
	if !m.SameCurrency(other) {
		return 0, currencyMismatch(m, other)
	}
	switch {
	case m.AmountMinorUnits < other.AmountMinorUnits:
		return -1, nil
	case m.AmountMinorUnits > other.AmountMinorUnits:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports value equality on the (amount, currency) pair.
func (m Money) Equal(other Money) bool {
	return m.AmountMinorUnits == other.AmountMinorUnits && m.Currency == other.Currency
}

// Format renders the amount with the currency's conventional symbol,
// thousands grouping, and minor-unit decimals: Money{285000, USD}
// becomes "$2,850.00".
func (m Money) Format() string {
	exponent := m.Currency.MinorUnitExponent()
	divisor := int64(1)
	for i := 0; i < exponent; i++ {
		divisor *= 10
	}

	whole := m.AmountMinorUnits / divisor
	minor := m.AmountMinorUnits % divisor

	var b strings.Builder
	b.WriteString(m.Currency.Symbol())
	b.WriteString(groupThousands(whole))
	if exponent > 0 {
		b.WriteByte('.')
		minorStr := strconv.FormatInt(minor, 10)
		for len(minorStr) < exponent {
			minorStr = "0" + minorStr
		}
		b.WriteString(minorStr)
	}
	return b.String()
}

// String implements fmt.Stringer via Format.
func (m Money) String() string {
	return m.Format()
}

func groupThousands(value int64) string {
	digits := strconv.FormatInt(value, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func currencyMismatch(a, b Money) error {
	return pkgerrors.New(pkgerrors.CodeCurrencyMismatch, "currencies do not match").
		WithDetails(map[string]any{
			"left":  string(a.Currency),
			"right": string(b.Currency),
		})
}
