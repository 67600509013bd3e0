package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashVerify_Argon2(t *testing.T) {
	h, err := Hash(Fast, "letmein")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(h, "$argon2id$v=19$"))

	require.True(t, Verify("letmein", h))
	require.False(t, Verify("LetMeIn", h))
}

func TestHash_Empty(t *testing.T) {
	_, err := Hash(Fast, "")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestVerify_Bcrypt(t *testing.T) {
	h, err := HashBcrypt("test")
	require.NoError(t, err)

	require.True(t, Verify("test", h))
	require.False(t, Verify("nope", h))
}

func TestVerify_UnknownFormat(t *testing.T) {
	require.False(t, Verify("x", "plaintext"))
	require.False(t, Verify("x", "$argon2id$broken"))
}
