package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault_Env_Exists(t *testing.T) {
	value := "abcdef"
	key := "MY_ENV_VAR1"
	defValue := "foobarbaz"
	t.Setenv(key, value)
	actual := getEnvOrDefault(key, defValue)
	assert.Equal(t, value, actual)
}

func TestGetEnvOrDefault_Env_not_Exists(t *testing.T) {
	key := "MY_ENV_VAR2"
	defValue := "foobarbaz"
	_ = os.Unsetenv(key)

	actual := getEnvOrDefault(key, defValue)
	assert.Equal(t, defValue, actual)
}

func TestGetDurationEnvOrDefault(t *testing.T) {
	key := "MY_DURATION_VAR"
	t.Setenv(key, "150ms")
	assert.Equal(t, 150*time.Millisecond, getDurationEnvOrDefault(key, time.Second))

	t.Setenv(key, "soon")
	assert.Equal(t, time.Second, getDurationEnvOrDefault(key, time.Second))
}

func TestLoadDotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("DOTENV_VAR1=from-file\nDOTENV_VAR2=from-file\n"), 0o600))
	t.Setenv("DOTENV_VAR2", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_VAR1") })

	loadDotEnv(file)
	assert.Equal(t, "from-file", getEnvOrDefault("DOTENV_VAR1", ""))
	assert.Equal(t, "from-env", getEnvOrDefault("DOTENV_VAR2", ""), "заданные переменные не перезаписываются")

	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
