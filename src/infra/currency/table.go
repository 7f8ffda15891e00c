// Package currency provides the fixed currency table behind domain.CurrencyLookup.
package currency

import (
	"strings"

	"marketplace/src/core/domain"
)

var _ domain.CurrencyLookup = (*Table)(nil)

// builtin is the set of currencies the marketplace supports.
var builtin = []domain.CurrencyDetails{
	{Code: domain.CurrencyEUR, InUse: true, DecimalPlaces: 2},
	{Code: domain.CurrencyAUD, InUse: true, DecimalPlaces: 2},
}

// Table is an immutable, in-memory currency lookup. Safe for concurrent use.
type Table struct {
	currencies map[domain.CurrencyCode]domain.CurrencyDetails
}

// NewTable builds the table. Codes in retired (case-insensitive) stay known but
// are reported as not in use; unknown entries are ignored.
func NewTable(retired ...string) *Table {
	t := &Table{currencies: make(map[domain.CurrencyCode]domain.CurrencyDetails, len(builtin))}
	for _, c := range builtin {
		t.currencies[c.Code] = c
	}
	for _, r := range retired {
		code := domain.CurrencyCode(strings.ToUpper(strings.TrimSpace(r)))
		if c, ok := t.currencies[code]; ok {
			c.InUse = false
			t.currencies[code] = c
		}
	}
	return t
}

// FindCurrency implements domain.CurrencyLookup.
func (t *Table) FindCurrency(code domain.CurrencyCode) (domain.CurrencyDetails, error) {
	c, ok := t.currencies[code]
	if !ok {
		return domain.CurrencyDetails{}, domain.NewCurrencyLookupError(code)
	}
	return c, nil
}

// InUse lists the codes currently accepted, in table order.
func (t *Table) InUse() []domain.CurrencyCode {
	var out []domain.CurrencyCode
	for _, c := range builtin {
		if t.currencies[c.Code].InUse {
			out = append(out, c.Code)
		}
	}
	return out
}
