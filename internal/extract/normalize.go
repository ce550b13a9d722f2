package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var reCurrencyNoise = regexp.MustCompile(`[,\$€£]`)

// ParseMoney strips thousands separators and currency symbols and parses the
// residue as a decimal number. Pure; false when the residue is not numeric.
func ParseMoney(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(reCurrencyNoise.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseAge parses a bounded 1-2 digit integer, as captured by the age regex.
func ParseAge(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatMoney renders a value with thousands separators and two decimals,
// e.g. 5000 -> "5,000.00". Verification messages use this for auditability;
// ParseMoney(FormatMoney(v)) round-trips.
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
