package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Centavos is a money amount in hundredths of a Colombian peso. Amounts are
// carried as integers internally; floats only appear at the gateway boundary.
type Centavos int64

// Float64 returns the amount in pesos for gateway payloads.
func (c Centavos) Float64() float64 {
	return float64(c) / 100
}

// CentavosFromFloat converts a gateway peso amount to Centavos, rounding to
// the nearest centavo.
func CentavosFromFloat(f float64) Centavos {
	return Centavos(math.Round(f * 100))
}

// FormatCOP renders an amount the way the wallet displays money: es-CO
// convention, dot-grouped thousands and a comma before the centavos.
func FormatCOP(c Centavos) string {
	neg := ""
	if c < 0 {
		neg = "-"
		c = -c
	}
	whole := strings.ReplaceAll(humanize.Comma(int64(c/100)), ",", ".")
	return fmt.Sprintf("%s$ %s,%02d", neg, whole, c%100)
}

// ParseAmount parses a user-entered money amount into Centavos.
//
// Accepted input may carry a currency sign, spaces, and either comma or dot
// as grouping or decimal separators. The last separator is taken as the
// decimal separator unless it is followed by exactly three digits, in which
// case every separator is grouping ("1.234" is 1234 pesos, "1.23" is one
// peso with 23 centavos). Fractional digits beyond two are truncated.
// Non-positive and unparseable amounts are rejected.
func ParseAmount(s string) (Centavos, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, NewValidationError("amount", "amount is required")
	}

	for _, r := range cleaned {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, NewValidationError("amount", fmt.Sprintf("invalid amount %q", s))
		}
	}

	intPart := cleaned
	fracPart := ""
	if i := strings.LastIndexAny(cleaned, ".,"); i >= 0 {
		tail := cleaned[i+1:]
		if len(tail) == 3 {
			// Grouping separator, e.g. "1.234" or "1,234,567".
			intPart = cleaned
			fracPart = ""
		} else {
			intPart = cleaned[:i]
			fracPart = tail
		}
	}

	stripSep := func(s string) string {
		s = strings.ReplaceAll(s, ".", "")
		return strings.ReplaceAll(s, ",", "")
	}
	intPart = stripSep(intPart)
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	var total Centavos
	for _, r := range intPart + fracPart {
		total = total*10 + Centavos(r-'0')
		if total < 0 {
			return 0, NewValidationError("amount", fmt.Sprintf("amount %q is too large", s))
		}
	}
	if total <= 0 {
		return 0, NewValidationError("amount", "amount must be positive")
	}
	return total, nil
}
