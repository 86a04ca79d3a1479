package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIndonesianPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "081234567890", want: true},
		{input: "+62 812-3456-7890", want: true},
		{input: "6281234567890", want: true},
		{input: "0812 3456 7890", want: true},
		{input: "(0812) 3456-7890", want: true},
		{input: "0812345", want: false},
		{input: "12345678901", want: false},
		{input: "+1 555 123 4567", want: false},
		{input: "not a phone", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIndonesianPhone(tt.input))
		})
	}
}

func TestFormatIndonesianPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "081234567890", want: "+62 812-3456-7890"},
		{input: "6281234567890", want: "+62 812-3456-7890"},
		{input: "+6281234567890", want: "+62 812-3456-7890"},
		{input: "0812 3456 7890", want: "+62 812-3456-7890"},
		{input: "08123456789", want: "+62 812-3456-789"},
		// Invalid numbers pass through untouched.
		{input: "12345", want: "12345"},
		{input: "not a phone", want: "not a phone"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatIndonesianPhone(tt.input))
		})
	}
}

// Formatting twice must give the same result.
func TestFormatIndonesianPhoneFixedPoint(t *testing.T) {
	for _, input := range []string{"081234567890", "6281234567890", "0812345678"} {
		once := FormatIndonesianPhone(input)
		assert.True(t, IsCanonicalPhone(once), "canonical: %s", once)
		assert.Equal(t, once, FormatIndonesianPhone(once))
	}
}

func TestIsCanonicalPhone(t *testing.T) {
	assert.True(t, IsCanonicalPhone("+62 812-3456-7890"))
	assert.False(t, IsCanonicalPhone("081234567890"))
	assert.False(t, IsCanonicalPhone("+62 8123456789"))
}
