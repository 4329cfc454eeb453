package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{}, CreateRankList(-3))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
}

func TestPathResolver(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	exec := filepath.Join(home, "bin", "wstlserve")
	pr := NewPathResolverAt(exec, home)

	assert.Equal(t, filepath.Join(home, "bin"), pr.GetExecutableDir())
	assert.Equal(t, exec, pr.GetExecutablePath())
	assert.Equal(t, filepath.Join(home, "bin", "function.txt"), pr.ResolveRelativePath("function.txt"))
	assert.Equal(t, "/abs/function.txt", pr.ResolveRelativePath("/abs/function.txt"))

	path, err := pr.GetConfigPath("config.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pr.GetConfigDir(), "config.toml"), path)
	assert.True(t, FileExists(pr.GetConfigDir()))

	info := pr.GetRuntimeInfo()
	assert.Equal(t, exec, info["executable_path"])
	assert.Equal(t, home, info["home_dir"])
}

func TestTOMLHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	type section struct {
		File  string `toml:"file"`
		Count int    `toml:"count"`
	}
	type doc struct {
		Functions section `toml:"functions"`
	}

	require.NoError(t, SaveTOMLFile(doc{Functions: section{File: "f.txt", Count: 2}}, path))

	var loaded doc
	require.NoError(t, LoadTOMLFile(path, &loaded))
	assert.Equal(t, "f.txt", loaded.Functions.File)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	sec, ok := ExtractSection(raw, "functions")
	require.True(t, ok)
	file, ok := ExtractString(sec, "file")
	assert.True(t, ok)
	assert.Equal(t, "f.txt", file)
	_, ok = ExtractBool(sec, "file")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("[functions\nbroken"), 0o644))
	_, err = ParseTOMLWithRecovery(path)
	assert.Error(t, err)
}
