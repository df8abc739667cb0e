package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("user@example.com"))
	require.True(t, IsValidEmail("first.last+tag@sub.example.org"))
	require.False(t, IsValidEmail(""))
	require.False(t, IsValidEmail("not-an-email"))
	require.False(t, IsValidEmail("user@"))
}

func TestIsValidUsername(t *testing.T) {
	require.True(t, IsValidUsername("alice_01"))
	require.True(t, IsValidUsername("a-b"))
	require.False(t, IsValidUsername("ab"))
	require.False(t, IsValidUsername("way-too-long-for-a-username"))
	require.False(t, IsValidUsername("has space"))
}

func TestIsValidURL(t *testing.T) {
	require.True(t, IsValidURL("https://example.com/path?q=1"))
	require.True(t, IsValidURL("http://www.example.org"))
	require.False(t, IsValidURL("ftp://example.com"))
	require.False(t, IsValidURL("example.com"))
	require.False(t, IsValidURL(""))
}

func TestIsStrongPassword(t *testing.T) {
	require.True(t, IsStrongPassword("Abcdefg1"))
	require.False(t, IsStrongPassword("short1A"))
	require.False(t, IsStrongPassword("alllowercase1"))
	require.False(t, IsStrongPassword("ALLUPPERCASE1"))
	require.False(t, IsStrongPassword("NoDigitsHere"))
}
