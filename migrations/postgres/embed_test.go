package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpDownOrder(t *testing.T) {
	up, err := Up()
	require.NoError(t, err)
	require.Equal(t, []string{"0001_app_user_up.sql", "0002_app_user_username_idx_up.sql"}, up)

	down, err := Down()
	require.NoError(t, err)
	require.Equal(t, []string{"0002_app_user_username_idx_down.sql", "0001_app_user_down.sql"}, down)

	b, err := FS.ReadFile(up[0])
	require.NoError(t, err)
	require.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS app_user")
}
