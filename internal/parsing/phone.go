package parsing

import (
	"regexp"
	"strings"
)

var (
	phoneSeparatorPattern = regexp.MustCompile(`[\s\-.()]+`)
	indonesianPhonePattern = regexp.MustCompile(`^(?:\+62|62|0)\d{8,13}$`)
	canonicalPhonePattern  = regexp.MustCompile(`^\+62 \d{3}-\d{4}-\d{1,6}$`)
)

// normalizePhoneText strips separator characters, leaving only digits and an
// optional leading plus.
func normalizePhoneText(s string) string {
	return phoneSeparatorPattern.ReplaceAllString(strings.TrimSpace(s), "")
}

// IsValidIndonesianPhone reports whether the value is an Indonesian mobile
// number: a +62/62/0 prefix followed by 8 to 13 digits, ignoring separators.
func IsValidIndonesianPhone(s string) bool {
	return indonesianPhonePattern.MatchString(normalizePhoneText(s))
}

// IsCanonicalPhone reports whether a value is already in the canonical
// "+62 XXX-XXXX-XXXX" form.
func IsCanonicalPhone(s string) bool {
	return canonicalPhonePattern.MatchString(strings.TrimSpace(s))
}

// FormatIndonesianPhone renders a valid Indonesian mobile number in the
// canonical "+62 XXX-XXXX-XXXX" form. Invalid input is returned unchanged.
func FormatIndonesianPhone(s string) string {
	text := normalizePhoneText(s)
	if !indonesianPhonePattern.MatchString(text) {
		return s
	}
	var national string
	switch {
	case strings.HasPrefix(text, "+62"):
		national = text[3:]
	case strings.HasPrefix(text, "62"):
		national = text[2:]
	default: // leading 0
		national = text[1:]
	}
	var groups []string
	if len(national) > 3 {
		groups = append(groups, national[:3])
		national = national[3:]
	} else {
		groups = append(groups, national)
		national = ""
	}
	if len(national) > 4 {
		groups = append(groups, national[:4])
		national = national[4:]
	} else if national != "" {
		groups = append(groups, national)
		national = ""
	}
	if national != "" {
		groups = append(groups, national)
	}
	return "+62 " + strings.Join(groups, "-")
}
