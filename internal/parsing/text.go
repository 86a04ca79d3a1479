package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var multiSpacePattern = regexp.MustCompile(` {2,}`)

// HasWhitespaceIssue reports leading/trailing whitespace or runs of two or
// more internal spaces.
func HasWhitespaceIssue(s string) bool {
	if s != strings.TrimSpace(s) {
		return true
	}
	return multiSpacePattern.MatchString(s)
}

// NormalizeWhitespace trims the value and collapses internal space runs.
func NormalizeWhitespace(s string) string {
	return multiSpacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CasePattern classifies the capitalization style of a text cell.
type CasePattern string

const (
	CaseUpper    CasePattern = "upper"
	CaseLower    CasePattern = "lower"
	CaseTitle    CasePattern = "title"
	CaseSentence CasePattern = "sentence"
	CaseMixed    CasePattern = "mixed"
)

// DetectCasePattern classifies a value's capitalization. Values without
// letters classify as mixed.
func DetectCasePattern(s string) CasePattern {
	text := strings.TrimSpace(s)
	if text == "" || !strings.ContainsFunc(text, isLetter) {
		return CaseMixed
	}
	switch {
	case text == strings.ToUpper(text) && text != strings.ToLower(text):
		return CaseUpper
	case text == strings.ToLower(text):
		return CaseLower
	case text == ToTitleCase(text):
		return CaseTitle
	case text == ToSentenceCase(text):
		return CaseSentence
	default:
		return CaseMixed
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// upperFirst uppercases the first rune and lowercases the rest. Slicing by
// rune, not byte, so multi-byte first letters survive.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ToTitleCase uppercases the first letter of every space-separated word.
func ToTitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// ToSentenceCase uppercases only the first letter.
func ToSentenceCase(s string) string {
	if s == "" {
		return s
	}
	return upperFirst(s)
}

// ApplyTextCase applies one of the uniform case transforms. Unknown styles
// return the input unchanged.
func ApplyTextCase(s, style string) string {
	switch strings.ToLower(style) {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	case "title":
		return ToTitleCase(s)
	case "sentence":
		return ToSentenceCase(s)
	default:
		return s
	}
}
