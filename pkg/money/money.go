package money

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
)

// The legacy storefront shipped prices as display strings ("$19.99").
// Amounts are parsed exactly once at the API boundary and held as integer
// cents everywhere else; formatting happens only on the way out.

var centsFactor = decimal.NewFromInt(100)

// ParseDisplay converts a display price such as "$19.99", "19.99" or
// "1,299.00" into integer cents. More than two decimal places is rejected
// rather than silently rounded.
func ParseDisplay(value string) (int64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if d.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	cents := d.Mul(centsFactor)
	if !cents.IsInteger() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price has sub-cent precision")
	}
	return cents.IntPart(), nil
}

// FormatCents renders integer cents as a display price ("$19.99").
func FormatCents(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(centsFactor).StringFixed(2)
}

// LineTotal multiplies a unit price by a quantity.
func LineTotal(unitCents int64, qty int) int64 {
	return unitCents * int64(qty)
}
