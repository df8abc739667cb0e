package targets

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	apperrors "github.com/verifact-app/backend/pkg/errors"
)

func TestParse(t *testing.T) {
	for _, raw := range []string{"claim", "report", "comment", "user"} {
		parsed, err := Parse(raw)
		require.NoError(t, err)
		require.Equal(t, Type(raw), parsed)
	}

	_, err := Parse("anchor")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = Parse("")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestIsContentType(t *testing.T) {
	require.True(t, IsContentType(TypeClaim))
	require.True(t, IsContentType(TypeReport))
	require.False(t, IsContentType(TypeComment))
	require.False(t, IsContentType(TypeUser))
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", 50)
	got := truncate(long, 20)
	require.Equal(t, strings.Repeat("é", 17)+"...", got)

	// A cut inside a multi-byte sequence must never produce invalid UTF-8.
	mixed := strings.Repeat("日本語テキスト", 30)
	got = truncate(mixed, 100)
	require.True(t, strings.HasSuffix(got, "..."))
	require.True(t, utf8.ValidString(got))
}
