// internal/domain/money.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal" // For precise monetary calculations

	"finflow-tracker/internal/util"
)

// MoneyScale is the number of fractional digits kept for monetary values, NUMERIC(15, 2) in DB.
const MoneyScale = 2

// ParseMoney parses a decimal string such as "45.50" into a monetary amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, util.Invalid("malformed amount %q", s)
	}
	return d, nil
}

// RoundMoney rounds half away from zero to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RequirePositive rejects zero and negative amounts.
func RequirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return util.Invalid("%s must be greater than zero", field)
	}
	return nil
}

// RequireNonNegative rejects negative amounts.
func RequireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return util.Invalid("%s must not be negative", field)
	}
	return nil
}
