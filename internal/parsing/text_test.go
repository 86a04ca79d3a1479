package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasWhitespaceIssue(t *testing.T) {
	assert.True(t, HasWhitespaceIssue("  Budi"))
	assert.True(t, HasWhitespaceIssue("Budi  "))
	assert.True(t, HasWhitespaceIssue("Budi  Santoso"))
	assert.False(t, HasWhitespaceIssue("Budi Santoso"))
	assert.False(t, HasWhitespaceIssue(""))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "Budi Santoso", NormalizeWhitespace("  Budi   Santoso  "))
	assert.Equal(t, "Budi", NormalizeWhitespace("Budi"))
	assert.Equal(t, "", NormalizeWhitespace("   "))
}

func TestDetectCasePattern(t *testing.T) {
	tests := []struct {
		input string
		want  CasePattern
	}{
		{input: "JAKARTA", want: CaseUpper},
		{input: "jakarta", want: CaseLower},
		{input: "Budi Santoso", want: CaseTitle},
		{input: "Jakarta is the capital", want: CaseSentence},
		{input: "jAkArTa", want: CaseMixed},
		{input: "12345", want: CaseMixed},
		{input: "", want: CaseMixed},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCasePattern(tt.input))
		})
	}
}

func TestApplyTextCase(t *testing.T) {
	assert.Equal(t, "BUDI SANTOSO", ApplyTextCase("budi santoso", "upper"))
	assert.Equal(t, "budi santoso", ApplyTextCase("BUDI SANTOSO", "lower"))
	assert.Equal(t, "Budi Santoso", ApplyTextCase("bUDI sANTOSO", "title"))
	assert.Equal(t, "Budi santoso", ApplyTextCase("BUDI SANTOSO", "sentence"))
	assert.Equal(t, "unchanged", ApplyTextCase("unchanged", "camel"))
}

func TestApplyTextCaseMultiByte(t *testing.T) {
	// First letters outside ASCII must be recased as runes, not bytes.
	assert.Equal(t, "Édouard Santoso", ApplyTextCase("édouard SANTOSO", "title"))
	assert.Equal(t, "Über alles", ApplyTextCase("über ALLES", "sentence"))
}
