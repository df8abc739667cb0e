package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	jwt, err := GenerateToken("64f000000000000000000001", "a@b.c", "user", "secret", 1)
	require.NoError(t, err)
	require.NotEmpty(t, jwt)

	claims, err := ValidateToken(jwt, "secret")
	require.NoError(t, err)
	require.Equal(t, "64f000000000000000000001", claims.UserID)
	require.Equal(t, "a@b.c", claims.Email)
	require.Equal(t, "user", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	jwt, err := GenerateToken("64f000000000000000000001", "a@b.c", "user", "secret", 1)
	require.NoError(t, err)

	_, err = ValidateToken(jwt, "other")
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.jwt", "secret")
	require.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	jwt, err := GenerateToken("64f000000000000000000001", "a@b.c", "user", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateToken(jwt, "secret")
	require.Error(t, err)
}
