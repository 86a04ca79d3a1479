package identity

import (
	"fmt"
	"regexp"

	"rapihcli/internal/parsing"
)

// NPWPLength is the required digit count of an NPWP.
const NPWPLength = 15

// canonicalNPWPPattern is the official punctuation form XX.XXX.XXX.X-XXX.XXX.
var canonicalNPWPPattern = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}\.\d-\d{3}\.\d{3}$`)

// NPWPInfo is the result of validating one NPWP.
type NPWPInfo struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	Canonical bool   `json:"canonical"`
}

// ValidateNPWP checks that the value holds exactly 15 digits and reports
// whether it already carries the canonical punctuation.
func ValidateNPWP(s string) NPWPInfo {
	digits := parsing.DigitsOnly(s)
	if len(digits) != NPWPLength {
		return NPWPInfo{
			Valid:  false,
			Reason: fmt.Sprintf("NPWP must be %d digits, got %d", NPWPLength, len(digits)),
		}
	}
	return NPWPInfo{Valid: true, Canonical: canonicalNPWPPattern.MatchString(s)}
}

// FormatNPWP renders 15 digits in the canonical XX.XXX.XXX.X-XXX.XXX form.
// Input without exactly 15 digits is returned unchanged.
func FormatNPWP(s string) string {
	d := parsing.DigitsOnly(s)
	if len(d) != NPWPLength {
		return s
	}
	return fmt.Sprintf("%s.%s.%s.%s-%s.%s", d[0:2], d[2:5], d[5:8], d[8:9], d[9:12], d[12:15])
}
