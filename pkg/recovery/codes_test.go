package recovery_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/stepup/pkg/recovery"
)

var codeFormat = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func TestGenerateCodes(t *testing.T) {
	t.Parallel()

	t.Run("generates formatted unique codes", func(t *testing.T) {
		t.Parallel()
		codes, err := recovery.GenerateCodes(10)
		require.NoError(t, err)
		require.Len(t, codes, 10)

		seen := make(map[string]bool)
		for _, code := range codes {
			assert.Regexp(t, codeFormat, code)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		t.Parallel()
		for _, count := range []int{0, -1} {
			codes, err := recovery.GenerateCodes(count)
			assert.ErrorIs(t, err, recovery.ErrInvalidCodeCount)
			assert.Nil(t, codes)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "formatted", in: "AB1C-2DE3", want: "AB1C2DE3"},
		{name: "lowercase", in: "ab1c-2de3", want: "AB1C2DE3"},
		{name: "spaces", in: "  AB1C 2DE3 ", want: "AB1C2DE3"},
		{name: "already normalized", in: "AB1C2DE3", want: "AB1C2DE3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recovery.Normalize(tt.in))
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	codes, err := recovery.GenerateCodes(2)
	require.NoError(t, err)
	code, other := codes[0], codes[1]

	hash := recovery.HashCode(code)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, recovery.Normalize(code))

	assert.True(t, recovery.VerifyCode(code, hash))
	assert.False(t, recovery.VerifyCode(other, hash))
	assert.False(t, recovery.VerifyCode("ZZZZ-ZZZZ", hash))
}

func TestHashIgnoresFormatting(t *testing.T) {
	t.Parallel()

	hash := recovery.HashCode("AB1C-2DE3")
	assert.Equal(t, hash, recovery.HashCode("ab1c2de3"))
	assert.True(t, recovery.VerifyCode(" ab1c-2de3 ", hash))
}
