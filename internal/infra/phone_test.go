package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone_AcceptsNationalFormats(t *testing.T) {
	for _, in := range []string{"123456789", "123 456 789", "123-456-789", "+48 123 456 789"} {
		got, err := NormalizePhone(in, "PL")
		require.NoError(t, err, in)
		assert.Equal(t, "123456789", got, in)
	}
}

func TestNormalizePhone_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12"} {
		_, err := NormalizePhone(in, "PL")
		assert.ErrorIs(t, err, ErrInvalidPhone, in)
	}
}

func TestNormalizePhone_ForeignNumberKeepsCountryCode(t *testing.T) {
	foreign, err := NormalizePhone("+49 30 1234 5678", "PL")
	require.NoError(t, err)
	assert.Equal(t, "+493012345678", foreign)

	local, err := NormalizePhone("301234567", "PL")
	require.NoError(t, err)
	assert.NotEqual(t, foreign, local)

	again, err := NormalizePhone("+49-30-12345678", "PL")
	require.NoError(t, err)
	assert.Equal(t, foreign, again)
}
