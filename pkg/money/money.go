// Package money isolates the storefront's single ugly wire boundary: the
// RestoManage API formats monetary values as display strings ("12.00 $",
// "$5", "1,250.00 $") and the client must recover numbers from them. Every
// parsed value becomes a decimal.Decimal here; formatted strings never cross
// into domain logic.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price pairs the server-provided display string with its parsed amount.
// Display is kept verbatim for rendering; Amount is used for arithmetic.
type Price struct {
	Display string
	Amount  decimal.Decimal
}

// Zero is the zero price with the server's canonical empty-cart display.
var Zero = Price{Display: "0.00 $", Amount: decimal.Zero}

// Parse extracts the numeric amount from a server-formatted price string by
// stripping every character that is not a digit or a decimal point, the same
// recovery the legacy clients perform. Unparseable input yields a zero
// amount; the original string is preserved either way.
func Parse(s string) Price {
	amount, _ := decimal.NewFromString(stripNonNumeric(s))
	return Price{Display: s, Amount: amount}
}

// FromDecimal builds a Price from an amount, formatting the display the way
// the server does ("<amount> $", two decimal places).
func FromDecimal(d decimal.Decimal) Price {
	return Price{Display: Format(d), Amount: d}
}

// Format renders an amount in the server's display convention.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2) + " $"
}

// IsZero reports whether the parsed amount is zero.
func (p Price) IsZero() bool {
	return p.Amount.IsZero()
}

// Mul returns the amount multiplied by an integer quantity.
func (p Price) Mul(qty int) decimal.Decimal {
	return p.Amount.Mul(decimal.NewFromInt(int64(qty)))
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
