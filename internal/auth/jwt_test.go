package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndVerify(t *testing.T) {
	manager, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := manager.Generate("kim@example.com", "kim")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", claims.Email)
	assert.Equal(t, "kim", claims.Nickname)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate("kim@example.com", "kim")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager, err := NewJWTManager(testSecret, -time.Minute)
	require.NoError(t, err)

	token, err := manager.Generate("kim@example.com", "kim")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := manager.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	manager, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	first, err := manager.Generate("kim@example.com", "kim")
	require.NoError(t, err)
	second, err := manager.Generate("kim@example.com", "kim")
	require.NoError(t, err)

	firstClaims, err := manager.Verify(first)
	require.NoError(t, err)
	secondClaims, err := manager.Verify(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
