package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	tempFilePath := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(tempFilePath, []byte(content), 0644))
	return tempFilePath
}

// isolate points every lookup at tempDir and an in-memory environment.
func isolate(t *testing.T, env map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	originalLookupEnv := osLookupEnv
	originalHome := osUserHomeDir
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
		osLookupEnv = originalLookupEnv
		osUserHomeDir = originalHome
	})

	osUserHomeDir = func() (string, error) { return tempDir, nil }
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "project", projectConfigDir, configFileName), nil
	}
	osLookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return tempDir
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	isolate(t, nil)

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
	assert.Equal(t, 5901, loaded.Console.PortRangeStart)
	assert.Equal(t, 5999, loaded.Console.PortRangeEnd)
	assert.Equal(t, 10, loaded.Console.PortAttempts)
	assert.Equal(t, 3*time.Second, loaded.Console.CleanupDelay)
	assert.False(t, loaded.VCenter.IsInsecure())
}

func TestLoadConfig_UserAndProjectOverride(t *testing.T) {
	tempDir := isolate(t, nil)

	createTempConfigFile(t, filepath.Join(tempDir, userConfigDir), `
vcenter:
  url: https://vc.user.example/sdk
  username: user@vsphere.local
console:
  portAttempts: 4
  viewerCommand: ["xtightvncviewer"]
tasks:
  pollInterval: 250ms
`)
	createTempConfigFile(t, filepath.Join(tempDir, "project", projectConfigDir), `
vcenter:
  url: https://vc.project.example/sdk
  insecure: true
logging:
  level: debug
`)

	loaded, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://vc.project.example/sdk", loaded.VCenter.URL)
	assert.Equal(t, "user@vsphere.local", loaded.VCenter.Username)
	assert.True(t, loaded.VCenter.IsInsecure())
	assert.Equal(t, 4, loaded.Console.PortAttempts)
	assert.Equal(t, []string{"xtightvncviewer"}, loaded.Console.ViewerCommand)
	assert.Equal(t, []string{"vncpasswd", "-f"}, loaded.Console.PasswdCommand)
	assert.Equal(t, 250*time.Millisecond, loaded.Tasks.PollInterval)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadConfig_EnvironmentWins(t *testing.T) {
	tempDir := isolate(t, map[string]string{
		envURL:      "https://vc.env.example/sdk",
		envUserName: "env-user",
		envPassword: "s3cret",
		envInsecure: "yes",
	})
	createTempConfigFile(t, filepath.Join(tempDir, userConfigDir), `
vcenter:
  url: https://vc.user.example/sdk
  insecure: false
`)

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://vc.env.example/sdk", loaded.VCenter.URL)
	assert.Equal(t, "env-user", loaded.VCenter.Username)
	assert.Equal(t, "s3cret", loaded.VCenter.Password)
	assert.True(t, loaded.VCenter.IsInsecure())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := isolate(t, nil)
	createTempConfigFile(t, filepath.Join(tempDir, userConfigDir), "console: [unterminated")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoadConfig_InvalidPortRange(t *testing.T) {
	tempDir := isolate(t, nil)
	createTempConfigFile(t, filepath.Join(tempDir, userConfigDir), `
console:
  portRangeStart: 6000
  portRangeEnd: 5901
`)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid console port range")
}

func TestLogFilePath(t *testing.T) {
	tempDir := isolate(t, nil)

	cfg := GetDefaultConfig()
	path, err := cfg.LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, ".cache", "pvctl", "pvctl.log"), path)

	cfg.Logging.File = "/tmp/custom.log"
	path, err = cfg.LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.log", path)
}
