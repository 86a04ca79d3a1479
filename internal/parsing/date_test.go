package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "iso", input: "2024-03-15", want: date(2024, 3, 15), ok: true},
		{name: "dmy slash", input: "15/03/2024", want: date(2024, 3, 15), ok: true},
		{name: "dmy dash", input: "15-03-2024", want: date(2024, 3, 15), ok: true},
		{name: "two digit year 2000s", input: "15/03/24", want: date(2024, 3, 15), ok: true},
		{name: "two digit year 1900s", input: "15/03/99", want: date(1999, 3, 15), ok: true},
		{name: "english month", input: "15 March 2024", want: date(2024, 3, 15), ok: true},
		{name: "english abbreviation", input: "15-Mar-2024", want: date(2024, 3, 15), ok: true},
		{name: "indonesian month", input: "15 Maret 2024", want: date(2024, 3, 15), ok: true},
		{name: "indonesian agustus", input: "17 Agustus 1945", want: date(1945, 8, 17), ok: true},
		{name: "spreadsheet serial", input: "45366", want: date(2024, 3, 15), ok: true},
		{name: "invalid day", input: "31/02/2024", ok: false},
		{name: "invalid month", input: "15/13/2024", ok: false},
		{name: "text", input: "not a date", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExpandTwoDigitYear(t *testing.T) {
	assert.Equal(t, 2024, ExpandTwoDigitYear(24))
	assert.Equal(t, 2049, ExpandTwoDigitYear(49))
	assert.Equal(t, 1950, ExpandTwoDigitYear(50))
	assert.Equal(t, 1999, ExpandTwoDigitYear(99))
	assert.Equal(t, 2000, ExpandTwoDigitYear(0))
}

func TestDetectDateFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2024-03-15", want: "YYYY-MM-DD"},
		{input: "15/03/2024", want: "DD/MM/YYYY"},
		{input: "15-03-2024", want: "DD-MM-YYYY"},
		{input: "15/03/24", want: "DD/MM/YY"},
		{input: "15-Mar-2024", want: "DD-MMM-YYYY"},
		{input: "15 Maret 2024", want: "DD-MMM-YYYY"},
		{input: "45366", want: "serial"},
		{input: "garbage", want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDateFormat(tt.input))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := date(2024, 3, 15)
	assert.Equal(t, "15-Mar-2024", FormatDate(d, "DD-MMM-YYYY"))
	assert.Equal(t, "2024-03-15", FormatDate(d, "YYYY-MM-DD"))
	assert.Equal(t, "15/03/2024", FormatDate(d, "DD/MM/YYYY"))
	assert.Equal(t, "15-Mar-2024", FormatDate(d, "unknown pattern"))
}

// Canonical output must re-parse to the same date so cleaning a second time
// changes nothing.
func TestFormatDateFixedPoint(t *testing.T) {
	d := date(2024, 3, 15)
	for pattern := range map[string]bool{"DD-MMM-YYYY": true, "YYYY-MM-DD": true, "DD/MM/YYYY": true, "DD-MM-YYYY": true} {
		formatted := FormatDate(d, pattern)
		parsed, ok := ParseDate(formatted)
		require.True(t, ok, "re-parse %q", formatted)
		assert.Equal(t, d, parsed)
		assert.Equal(t, formatted, FormatDate(parsed, pattern))
	}
}

func TestKnownDateFormat(t *testing.T) {
	assert.True(t, KnownDateFormat("DD-MMM-YYYY"))
	assert.False(t, KnownDateFormat("MM/DD/YYYY"))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
