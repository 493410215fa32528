package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTempPasswordLength(t *testing.T) {
	pw, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.Len(t, pw, 16)
}

func TestGenerateTempPasswordContainsAllClasses(t *testing.T) {
	for i := 0; i < 1000; i++ {
		pw, err := GenerateTempPassword()
		require.NoError(t, err)
		require.Len(t, pw, 16)

		for _, class := range passwordClasses {
			require.True(t, strings.ContainsAny(pw, class),
				"password %q missing a character from class %q", pw, class)
		}
	}
}

func TestGenerateTempPasswordNotRepeating(t *testing.T) {
	prev, err := GenerateTempPassword()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		pw, err := GenerateTempPassword()
		require.NoError(t, err)
		assert.NotEqual(t, prev, pw)
		prev = pw
	}
}

func TestGenerateTempPasswordOnlyCatalogChars(t *testing.T) {
	var all string
	for _, class := range passwordClasses {
		all += class
	}

	pw, err := GenerateTempPassword()
	require.NoError(t, err)
	for _, ch := range pw {
		assert.Contains(t, all, string(ch))
	}
}
