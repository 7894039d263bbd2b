package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	// Out-of-range costs must not error; bcrypt would reject cost 99.
	hash, err := HashPassword("s3cret", 99)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))

	hash, err = HashPassword("s3cret", -1)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
}
