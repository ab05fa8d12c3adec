package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticTokenProvider(t *testing.T) {
	ctx := context.Background()

	token, err := StaticTokenProvider{Token: " " + jwt + "\n"}.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, jwt, token)

	_, err = StaticTokenProvider{Token: "short"}.Acquire(ctx)
	require.Error(t, err)
}

func TestTokenFileProvider(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")

	_, err := TokenFileProvider{Path: path}.Acquire(ctx)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(jwt+"\n"), 0o600))
	token, err := TokenFileProvider{Path: path}.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, jwt, token)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	_, err = TokenFileProvider{Path: path}.Acquire(ctx)
	require.Error(t, err)
}

func TestCommandProvider(t *testing.T) {
	ctx := context.Background()

	_, err := CommandProvider{}.Acquire(ctx)
	require.Error(t, err)

	token, err := CommandProvider{
		Command: []string{"sh", "-c", "echo 'Token acquired:'; echo " + jwt},
	}.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, jwt, token)

	_, err = CommandProvider{
		Command: []string{"sh", "-c", "echo no token today"},
	}.Acquire(ctx)
	require.Error(t, err)
}
