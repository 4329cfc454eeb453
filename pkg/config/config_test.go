package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[functions]
file = "builtins.txt"
dir = "../share"

[lsp]
transport = "tcp"
address = "127.0.0.1:9000"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "builtins.txt", cfg.Functions.File)
	assert.Equal(t, "../share", cfg.Functions.Dir)
	assert.Equal(t, TransportTCP, cfg.LSP.Transport)
	assert.Equal(t, "127.0.0.1:9000", cfg.LSP.Address)
	// untouched sections keep defaults
	assert.True(t, cfg.CLI.ShowFiltered)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[functions]
file = 42
dir = "lib"

[cli]
show_filtered = false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "function.txt", cfg.Functions.File)
	assert.Equal(t, "lib", cfg.Functions.Dir)
	assert.False(t, cfg.CLI.ShowFiltered)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := writeConfig(t, "[functions\nfile =")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriority(t *testing.T) {
	custom := writeConfig(t, "[functions]\nfile = \"custom.txt\"\n")
	defaultPath := filepath.Join(t.TempDir(), FileName)

	cfg, used, err := LoadConfigWithPriority(custom, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, custom, used)
	assert.Equal(t, "custom.txt", cfg.Functions.File)

	cfg, used, err = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), defaultPath)
	require.NoError(t, err)
	assert.Equal(t, defaultPath, used)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, used, err = LoadConfigWithPriority("", "")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"websocket", func(c *Config) { c.LSP.Transport = TransportWebSocket }, false},
		{"unknown transport", func(c *Config) { c.LSP.Transport = "pipe" }, true},
		{"tcp without address", func(c *Config) {
			c.LSP.Transport = TransportTCP
			c.LSP.Address = ""
		}, true},
		{"stdio without address", func(c *Config) { c.LSP.Address = "" }, false},
		{"empty functions file", func(c *Config) { c.Functions.File = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if tc.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestGetActiveConfigPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, "/etc/wstlserve/config.toml", GetActiveConfigPath("/etc/wstlserve/config.toml"))
	assert.Equal(t, filepath.Join(wd, FileName), GetActiveConfigPath(FileName))
	assert.Equal(t, "unknown", GetActiveConfigPath(""))
}
