package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)

	ok, err := Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongPassword(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)

	ok, err := Verify("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashFormatAndUniqueness(t *testing.T) {
	first, err := Hash("secret1")
	require.NoError(t, err)
	second, err := Hash("secret1")
	require.NoError(t, err)

	parts := strings.Split(first, ".")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], keyLen*2)
	assert.Len(t, parts[1], saltLen*2)

	// Random salts make equal passwords hash differently.
	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "nodot", "zzzz.ffff", "abcd.zz", "abcd.ffff"} {
		_, err := Verify("secret1", stored)
		assert.Error(t, err, "stored=%q", stored)
	}
}
