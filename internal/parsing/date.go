package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// CenturySplit is the two-digit-year cutoff: years below it resolve to
	// the 2000s, the rest to the 1900s. The same cutoff decodes NIK birth
	// years.
	CenturySplit = 50

	// ExcelEpochOffset is the day count between the 1900-based spreadsheet
	// epoch and the Unix epoch. Numeric cells in date columns are serial
	// dates relative to it.
	ExcelEpochOffset = 25569

	secondsPerDay = 86400
)

var (
	isoDatePattern      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmySlashPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dmyDashPattern      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	dmyShortSlash       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	dmyShortDash        = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`)
	monthNamePattern    = regexp.MustCompile(`^(\d{1,2})[ -]([A-Za-z]+)[ -](\d{4})$`)
	serialNumberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// monthNames maps English and Indonesian month names and abbreviations to
// month numbers.
var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January, "januari": time.January,
	"feb": time.February, "february": time.February, "februari": time.February,
	"mar": time.March, "march": time.March, "maret": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May, "mei": time.May,
	"jun": time.June, "june": time.June, "juni": time.June,
	"jul": time.July, "july": time.July, "juli": time.July,
	"aug": time.August, "august": time.August, "agu": time.August, "agustus": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October, "okt": time.October, "oktober": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December, "des": time.December, "desember": time.December,
}

// ExpandTwoDigitYear resolves a two-digit year using CenturySplit.
func ExpandTwoDigitYear(yy int) int {
	if yy < CenturySplit {
		return 2000 + yy
	}
	return 1900 + yy
}

// ParseDate parses a date cell. Formats are tried in a fixed order: ISO
// YYYY-MM-DD, DD/MM/YYYY, DD-MM-YYYY, two-digit-year variants, "DD month
// YYYY" with English or Indonesian month names, spreadsheet serial numbers,
// and finally a handful of generic layouts.
func ParseDate(s string) (time.Time, bool) {
	text := strings.TrimSpace(s)
	if text == "" {
		return time.Time{}, false
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dmySlashPattern.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := dmyDashPattern.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := dmyShortSlash.FindStringSubmatch(text); m != nil {
		return makeDate(ExpandTwoDigitYear(atoi(m[3])), atoi(m[2]), atoi(m[1]))
	}
	if m := dmyShortDash.FindStringSubmatch(text); m != nil {
		return makeDate(ExpandTwoDigitYear(atoi(m[3])), atoi(m[2]), atoi(m[1]))
	}
	if m := monthNamePattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			return makeDate(atoi(m[3]), int(month), atoi(m[1]))
		}
	}
	if serialNumberPattern.MatchString(text) {
		if serial, err := strconv.ParseFloat(text, 64); err == nil {
			return fromSerial(serial), true
		}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006/01/02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromSerial converts a 1900-based spreadsheet serial day count to a date.
func fromSerial(serial float64) time.Time {
	seconds := int64((serial - ExcelEpochOffset) * secondsPerDay)
	return time.Unix(seconds, 0).UTC()
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow such as 31 February.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// DetectDateFormat returns a coarse pattern token for a date cell, used to
// count distinct formats within a column. Unparseable text maps to "other".
func DetectDateFormat(s string) string {
	text := strings.TrimSpace(s)
	switch {
	case isoDatePattern.MatchString(text):
		return "YYYY-MM-DD"
	case dmySlashPattern.MatchString(text):
		return "DD/MM/YYYY"
	case dmyDashPattern.MatchString(text):
		return "DD-MM-YYYY"
	case dmyShortSlash.MatchString(text):
		return "DD/MM/YY"
	case dmyShortDash.MatchString(text):
		return "DD-MM-YY"
	case monthNamePattern.MatchString(text):
		if m := monthNamePattern.FindStringSubmatch(text); m != nil {
			if _, ok := monthNames[strings.ToLower(m[2])]; ok {
				return "DD-MMM-YYYY"
			}
		}
		return "other"
	case serialNumberPattern.MatchString(text):
		return "serial"
	default:
		return "other"
	}
}

// dateLayouts maps the configurable target patterns to Go layouts.
var dateLayouts = map[string]string{
	"DD-MMM-YYYY": "02-Jan-2006",
	"YYYY-MM-DD":  "2006-01-02",
	"DD/MM/YYYY":  "02/01/2006",
	"DD-MM-YYYY":  "02-01-2006",
}

// DefaultDateFormat is the cleaner's canonical target pattern.
const DefaultDateFormat = "DD-MMM-YYYY"

// FormatDate renders a date in the given target pattern, falling back to
// DefaultDateFormat for unknown patterns.
func FormatDate(t time.Time, pattern string) string {
	layout, ok := dateLayouts[pattern]
	if !ok {
		layout = dateLayouts[DefaultDateFormat]
	}
	return t.Format(layout)
}

// KnownDateFormat reports whether a target pattern is supported.
func KnownDateFormat(pattern string) bool {
	_, ok := dateLayouts[pattern]
	return ok
}
