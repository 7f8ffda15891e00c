package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is the closed set of currencies the marketplace knows about.
type CurrencyCode string

const (
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyAUD CurrencyCode = "AUD"
)

// CurrencyCodes lists every known code. Extend by adding a constant here.
var CurrencyCodes = []CurrencyCode{CurrencyEUR, CurrencyAUD}

// ParseCurrencyCode maps s (case-insensitive) to a known code.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range CurrencyCodes {
		if code == known {
			return code, nil
		}
	}
	return "", NewValidationError("currency", fmt.Sprintf("unknown currency code %q", s))
}

// CurrencyDetails is the metadata a CurrencyLookup supplies for one currency.
type CurrencyDetails struct {
	Code          CurrencyCode
	InUse         bool
	DecimalPlaces int32
}

// CurrencyLookup resolves currency metadata. Implementations live in infrastructure.
type CurrencyLookup interface {
	// FindCurrency fails with an ErrCurrencyLookup error for unknown codes.
	FindCurrency(code CurrencyCode) (CurrencyDetails, error)
}

// Money is an amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency CurrencyCode
}

// MoneyFromDecimal validates amount against the currency's metadata.
//
// An empty code selects DefaultCurrencyCode without consulting lookup. Otherwise the
// currency must be in use and amount must not carry more decimals than it allows.
func MoneyFromDecimal(amount decimal.Decimal, code CurrencyCode, lookup CurrencyLookup) (Money, error) {
	if code == "" {
		return Money{amount: amount, currency: DefaultCurrencyCode}, nil
	}

	currency, err := lookup.FindCurrency(code)
	if err != nil {
		return Money{}, err
	}
	if !currency.InUse {
		return Money{}, NewValidationError("currency", fmt.Sprintf("currency code %s is not valid", code))
	}
	if !roundHalfTowardsZero(amount, currency.DecimalPlaces).Equal(amount) {
		return Money{}, NewValidationError("amount", fmt.Sprintf(
			"amount in %s cannot have more than %d decimals", currency.Code, currency.DecimalPlaces))
	}

	return Money{amount: amount, currency: currency.Code}, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() CurrencyCode { return m.currency }

// Equal reports whether both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + string(m.currency)
}

// Add returns m + other. Both must be in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other. Both must be in the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// AddResult adds the outcome of an earlier fallible operation, so sums chain
// without unwrapping: total, err := a.AddResult(b.Add(c)).
func (m Money) AddResult(other Money, err error) (Money, error) {
	if err != nil {
		return Money{}, err
	}
	return m.Add(other)
}

// SubResult subtracts the outcome of an earlier fallible operation.
func (m Money) SubResult(other Money, err error) (Money, error) {
	if err != nil {
		return Money{}, err
	}
	return m.Sub(other)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return NewValidationError("currency", fmt.Sprintf(
			"cannot combine %s with %s", m.currency, other.currency))
	}
	return nil
}

// roundHalfTowardsZero rounds d to places decimals; exact halves go towards zero.
func roundHalfTowardsZero(d decimal.Decimal, places int32) decimal.Decimal {
	truncated := d.Truncate(places)
	remainder := d.Sub(truncated).Abs()
	half := decimal.New(5, -(places + 1))
	if !remainder.GreaterThan(half) {
		return truncated
	}
	step := decimal.New(1, -places)
	if d.IsNegative() {
		return truncated.Sub(step)
	}
	return truncated.Add(step)
}

// Price is a non-negative Money.
type Price struct {
	Money
}

// PriceFromDecimal rejects negative amounts and otherwise behaves like MoneyFromDecimal.
func PriceFromDecimal(amount decimal.Decimal, code CurrencyCode, lookup CurrencyLookup) (Price, error) {
	if amount.IsNegative() {
		return Price{}, NewValidationError("price", "price cannot be negative")
	}
	money, err := MoneyFromDecimal(amount, code, lookup)
	if err != nil {
		return Price{}, err
	}
	return Price{Money: money}, nil
}

// IsZero reports whether the amount is exactly zero.
func (p Price) IsZero() bool {
	return p.amount.IsZero()
}
