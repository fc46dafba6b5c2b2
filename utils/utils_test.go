package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronolens/apperr"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.Contains(t, hashed, ".")
	assert.NotContains(t, hashed, "hunter2")

	require.NoError(t, ComparePassword("hunter2hunter2", hashed))
	assert.Error(t, ComparePassword("wrong-password", hashed))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestComparePasswordRejectsMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "no-dot", "a.b.c", "!!!.@@@"} {
		err := ComparePassword("whatever", stored)
		require.Error(t, err, "stored=%q", stored)
		assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignedToken("test-secret", time.Hour, "u-123", "registered")
	require.NoError(t, err)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-123", claims.UID)
	assert.Equal(t, "registered", claims.Tier)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignedToken("secret-a", time.Hour, "u-123", "guest")
	require.NoError(t, err)

	_, err = ParseToken("secret-b", token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := SignedToken("test-secret", -time.Minute, "u-123", "guest")
	require.NoError(t, err)

	_, err = ParseToken("test-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("test-secret", "not.a.jwt")
	assert.Error(t, err)
}

func TestPublicIDShape(t *testing.T) {
	id := PublicID("0f8fad5b-d9cb-469f-a165-70867728950e")

	parts := strings.Split(id, "-")
	require.Len(t, parts, 2)
	assert.Equal(t, "0f8fad5b", parts[0])
	assert.Len(t, parts[1], 6)

	// Distinct calls for the same scene mint distinct listing ids.
	assert.NotEqual(t, id, PublicID("0f8fad5b-d9cb-469f-a165-70867728950e"))
}
