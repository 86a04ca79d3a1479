package parsing

import (
	"regexp"
	"strings"
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	repeatedAtPattern   = regexp.MustCompile(`@{2,}`)
	repeatedDotPattern  = regexp.MustCompile(`\.{2,}`)
	internalSpacePattern = regexp.MustCompile(`\s+`)
)

// IsValidEmail reports whether the value matches the email shape used across
// the analyzer: non-space local part, @, non-space domain with a dot.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail applies the deterministic email repairs: trim, lowercase,
// remove embedded spaces, collapse repeated @ and repeated dots, and strip
// trailing dots. The caller must verify the result with IsValidEmail before
// treating the original as auto-fixable.
func NormalizeEmail(s string) string {
	text := strings.ToLower(strings.TrimSpace(s))
	text = internalSpacePattern.ReplaceAllString(text, "")
	text = repeatedAtPattern.ReplaceAllString(text, "@")
	text = repeatedDotPattern.ReplaceAllString(text, ".")
	return strings.TrimRight(text, ".")
}
