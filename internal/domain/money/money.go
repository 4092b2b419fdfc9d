// Package money holds the bounds of the DECIMAL(12,2) amount columns.
package money

import "github.com/shopspring/decimal"

// Limit is the smallest magnitude a DECIMAL(12,2) column cannot store.
var Limit = decimal.New(1, 10)

// TooLarge is the validation message for amounts at or above Limit.
const TooLarge = "must be less than 10000000000"

// Fits reports whether d can be stored in an amount column.
func Fits(d decimal.Decimal) bool { return d.Abs().LessThan(Limit) }
