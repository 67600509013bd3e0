package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskToken(t *testing.T) {
	require.Equal(t, "", MaskToken("  "))
	require.Equal(t, "***", MaskToken("short"))
	require.Equal(t, "eyJhbG…wxyz", MaskToken("eyJhbGciOiJIUzI1NiJ9.payload.wxyz"))
}
