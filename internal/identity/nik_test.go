package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNIK(t *testing.T) {
	t.Run("valid male", func(t *testing.T) {
		info := ValidateNIK("3201011505990001")
		require.True(t, info.Valid)
		assert.Equal(t, "32", info.ProvinceCode)
		assert.Equal(t, "Jawa Barat", info.Province)
		assert.Equal(t, GenderMale, info.Gender)
		assert.Equal(t, time.Date(1999, time.May, 15, 0, 0, 0, 0, time.UTC), info.BirthDate)
	})

	t.Run("valid female with day offset", func(t *testing.T) {
		info := ValidateNIK("3174015503010002")
		require.True(t, info.Valid)
		assert.Equal(t, "DKI Jakarta", info.Province)
		assert.Equal(t, GenderFemale, info.Gender)
		assert.Equal(t, time.Date(2001, time.March, 15, 0, 0, 0, 0, time.UTC), info.BirthDate)
	})

	t.Run("punctuation is ignored", func(t *testing.T) {
		info := ValidateNIK("3201.0115.0599.0001")
		assert.True(t, info.Valid)
	})

	t.Run("wrong length", func(t *testing.T) {
		info := ValidateNIK("320101150599001")
		require.False(t, info.Valid)
		assert.Contains(t, info.Reason, "16 digits")
	})

	t.Run("unknown province", func(t *testing.T) {
		info := ValidateNIK("9901011505990001")
		require.False(t, info.Valid)
		assert.Contains(t, info.Reason, "province")
	})

	t.Run("birth day out of range", func(t *testing.T) {
		info := ValidateNIK("3201013905990001")
		require.False(t, info.Valid)
		assert.Contains(t, info.Reason, "birth day")
	})

	t.Run("birth month out of range", func(t *testing.T) {
		info := ValidateNIK("3201011513990001")
		require.False(t, info.Valid)
		assert.Contains(t, info.Reason, "birth month")
	})
}

func TestValidateNIKCenturySplit(t *testing.T) {
	// yy below the cutoff resolves to the 2000s, at or above to the 1900s.
	assert.Equal(t, 2010, ValidateNIK("3201011505100001").BirthDate.Year())
	assert.Equal(t, 1950, ValidateNIK("3201011505500001").BirthDate.Year())
}

func TestFormatNIK(t *testing.T) {
	assert.Equal(t, "3201011505990001", FormatNIK("3201-0115-0599-0001"))
	assert.Equal(t, "3201011505990001", FormatNIK("3201011505990001"))
	// Not 16 digits: returned unchanged.
	assert.Equal(t, "12345", FormatNIK("12345"))
}

func TestProvinceName(t *testing.T) {
	name, ok := ProvinceName("31")
	require.True(t, ok)
	assert.Equal(t, "DKI Jakarta", name)

	_, ok = ProvinceName("99")
	assert.False(t, ok)
}
