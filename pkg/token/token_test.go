package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateLengthAndCharset(t *testing.T) {
	for _, length := range []int{1, 10, 16, 32} {
		got, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, got, length)
		assert.Regexp(t, urlSafePattern, got)
	}
}

func TestGenerateRejectsNonPositiveLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)

	_, err = Generate(-5)
	assert.Error(t, err)
}

func TestGenerateHex(t *testing.T) {
	got, err := GenerateHex(8)
	require.NoError(t, err)
	assert.Len(t, got, 16)
	assert.Regexp(t, `^[0-9a-f]+$`, got)

	_, err = GenerateHex(0)
	assert.Error(t, err)
}

func TestGenerateInviteCodeUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, 16)
		assert.Regexp(t, urlSafePattern, code)

		_, dup := seen[code]
		assert.False(t, dup, "duplicate invite code generated")
		seen[code] = struct{}{}
	}
}
