package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var numberNoise = strings.NewReplacer("$", "", ",", "", " ", "", "₹", "", "€", "", "£", "", " ", "")

// CleanNumber parses a broker-formatted number. It strips currency symbols,
// thousands separators and a leading "@" or "+"; "(12.50)" reads as -12.50.
// ok is false for empty or non-numeric cells.
func CleanNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = numberNoise.Replace(s)
	s = strings.TrimLeft(s, "@+")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// OptionalNumber is CleanNumber for fields where a blank cell means "unknown".
func OptionalNumber(s string) *decimal.Decimal {
	d, ok := CleanNumber(s)
	if !ok {
		return nil
	}
	return &d
}
