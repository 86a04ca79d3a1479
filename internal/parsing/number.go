package parsing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Locale-variant patterns for numeric text. The three groups are mutually
// exclusive; anything else falls through to a plain comma-stripped parse.
var (
	indonesianNumberPattern = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+(?:,\d+)?$`)
	usNumberPattern         = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	commaDecimalPattern     = regexp.MustCompile(`^-?\d+,\d+$`)

	currencyPrefixPattern = regexp.MustCompile(`(?i)^\s*(?:Rp\.?|IDR)\s*`)
	percentPattern        = regexp.MustCompile(`^-?[\d.,]+\s*%$`)
)

// StripCurrencySymbol removes an Rp/IDR prefix and surrounding whitespace.
// The remainder is numeric text in one of the supported locales.
func StripCurrencySymbol(s string) string {
	return strings.TrimSpace(currencyPrefixPattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// IsCurrency reports whether the value carries an Rp/IDR prefix followed by
// parseable numeric text.
func IsCurrency(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !currencyPrefixPattern.MatchString(trimmed) {
		return false
	}
	_, ok := ParseNumber(StripCurrencySymbol(trimmed))
	return ok
}

// ParseNumber parses numeric text in any of three locale variants:
// Indonesian "1.234.567,89", US "1,234,567.89", and bare comma-as-decimal
// "12,5". Currency symbols must already be stripped.
func ParseNumber(s string) (float64, bool) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, false
	}
	switch {
	case indonesianNumberPattern.MatchString(text):
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	case usNumberPattern.MatchString(text):
		text = strings.ReplaceAll(text, ",", "")
	case commaDecimalPattern.MatchString(text):
		text = strings.ReplaceAll(text, ",", ".")
	default:
		text = strings.ReplaceAll(text, ",", "")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCurrency strips the currency symbol and parses the remainder.
func ParseCurrency(s string) (float64, bool) {
	return ParseNumber(StripCurrencySymbol(s))
}

// FormatNumber renders a float with no trailing decimal zeros, the form used
// when coercing number-stored-as-text cells.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRupiah renders the canonical currency form "Rp 1.234.567" with
// Indonesian thousand separators. Fractions are rounded away; rupiah amounts
// are whole numbers in practice.
func FormatRupiah(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return fmt.Sprintf("%sRp %s", sign, strings.Join(groups, "."))
}

// IsCanonicalRupiah reports whether a currency cell already matches the
// canonical "Rp 1.234.567" form.
func IsCanonicalRupiah(s string) bool {
	return canonicalRupiahPattern.MatchString(strings.TrimSpace(s))
}

var canonicalRupiahPattern = regexp.MustCompile(`^-?Rp \d{1,3}(?:\.\d{3})*$`)

// IsPercentage reports whether the value is an explicit percentage ("12%",
// "12,5 %") or a bare decimal in [0,1] with a fractional part.
func IsPercentage(s string) bool {
	text := strings.TrimSpace(s)
	if percentPattern.MatchString(text) {
		_, ok := ParseNumber(strings.TrimSpace(strings.TrimSuffix(text, "%")))
		return ok
	}
	v, ok := ParseNumber(text)
	if !ok {
		return false
	}
	return v >= 0 && v <= 1 && v != math.Trunc(v)
}

// booleanTokens is the fixed token set accepted as boolean cells.
var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"ya": true, "tidak": true,
	"1": true, "0": true,
}

// IsBoolean reports whether the value is one of the accepted boolean tokens,
// case-insensitively.
func IsBoolean(s string) bool {
	return booleanTokens[strings.ToLower(strings.TrimSpace(s))]
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
