package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/config"
)

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "does-not-exist.env")))
}

func TestLoadDotEnv_PopulatesProcessEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STC_GENESIS_ROOT=0xabc\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STC_GENESIS_ROOT") })

	require.NoError(t, config.LoadDotEnv(path))
	require.Equal(t, "0xabc", config.GetEnv("STC_GENESIS_ROOT", ""))
}

func TestGetEnv_FallsBackToDefault(t *testing.T) {
	require.Equal(t, "fallback", config.GetEnv("BRIDGE_UNSET_VAR_XYZ", "fallback"))
}
