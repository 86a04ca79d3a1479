// Package identity implements structural validation of Indonesian identity
// documents: NIK (national identity number) and NPWP (taxpayer number).
// Validation is purely structural; there is no registry lookup.
package identity

import (
	"fmt"
	"strconv"
	"time"

	"rapihcli/internal/parsing"
)

// Gender decoded from the NIK birth-day field.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// femaleDayOffset is added to the day-of-month field for female holders.
const femaleDayOffset = 40

// NIKLength is the required digit count of a NIK.
const NIKLength = 16

// NIKInfo is the result of validating one NIK.
type NIKInfo struct {
	Valid        bool      `json:"valid"`
	Reason       string    `json:"reason,omitempty"`
	ProvinceCode string    `json:"province_code,omitempty"`
	Province     string    `json:"province,omitempty"`
	Gender       Gender    `json:"gender,omitempty"`
	BirthDate    time.Time `json:"birth_date,omitempty"`
}

// ValidateNIK checks the structure of a NIK: 16 digits after stripping
// punctuation, a known province code prefix, and an in-range encoded birth
// date. The day field carries a +40 offset for female holders.
func ValidateNIK(s string) NIKInfo {
	digits := parsing.DigitsOnly(s)
	if len(digits) != NIKLength {
		return NIKInfo{
			Valid:  false,
			Reason: fmt.Sprintf("NIK must be %d digits, got %d", NIKLength, len(digits)),
		}
	}

	provinceCode := digits[0:2]
	province, ok := ProvinceName(provinceCode)
	if !ok {
		return NIKInfo{
			Valid:        false,
			Reason:       fmt.Sprintf("unknown province code %q", provinceCode),
			ProvinceCode: provinceCode,
		}
	}

	day, _ := strconv.Atoi(digits[6:8])
	month, _ := strconv.Atoi(digits[8:10])
	yy, _ := strconv.Atoi(digits[10:12])

	gender := GenderMale
	if day > femaleDayOffset {
		gender = GenderFemale
		day -= femaleDayOffset
	}

	if day < 1 || day > 31 {
		return NIKInfo{
			Valid:        false,
			Reason:       fmt.Sprintf("birth day %d out of range", day),
			ProvinceCode: provinceCode,
			Province:     province,
		}
	}
	if month < 1 || month > 12 {
		return NIKInfo{
			Valid:        false,
			Reason:       fmt.Sprintf("birth month %d out of range", month),
			ProvinceCode: provinceCode,
			Province:     province,
		}
	}

	year := parsing.ExpandTwoDigitYear(yy)
	return NIKInfo{
		Valid:        true,
		ProvinceCode: provinceCode,
		Province:     province,
		Gender:       gender,
		BirthDate:    time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
	}
}

// FormatNIK returns the canonical NIK form: the bare 16 digits with all
// punctuation stripped. Input that does not contain exactly 16 digits is
// returned unchanged.
func FormatNIK(s string) string {
	digits := parsing.DigitsOnly(s)
	if len(digits) != NIKLength {
		return s
	}
	return digits
}
