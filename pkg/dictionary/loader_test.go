package dictionary

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf), &buf
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{"3 functions", "Div,Mol,Mul", []string{"Div", "Mol", "Mul"}},
		{"3 functions, one space after comma", "Div, Mol, Mul", []string{"Div", "Mol", "Mul"}},
		{"3 functions, whitespace and newline", "   Div  ,  \n Mol,Mul    ", []string{"Div", "Mol", "Mul"}},
		{"1 function between empty entries", ", Mol, ,", []string{"Mol"}},
		{"1 function with whitespace duplicates", "Div, , Div,  Div ,", []string{"Div"}},
		{"2 functions and duplicates", "Div,Mol,Div,Mol,Mol", []string{"Div", "Mol"}},
		{"one per line", "Div\nMol\n\n\nMul\n", []string{"Div", "Mol", "Mul"}},
		{"CRLF line endings", "Div\r\nMol\r\n", []string{"Div", "Mol"}},
		{"shared prefixes", "Mul,MultiplyAll,M", []string{"M", "Mul", "MultiplyAll"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.content)
			assert.ElementsMatch(t, tc.expected, got.Labels())
			for _, c := range got {
				assert.Equal(t, suggest.KindFunction, c.Kind)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, content := range []string{"", "  , \n,", "\n\n", " "} {
		got := Parse(content)
		assert.True(t, got.IsNull(), "content %q", content)
		assert.Len(t, got, 1)
	}
}

func TestLoadFromDisk(t *testing.T) {
	anchor := t.TempDir()
	dir := filepath.Join(anchor, "server")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "function.txt"), []byte("Div,\nMol, Mul\n"), 0o644))

	logger, buf := captureLogger()
	loader := NewLoader(anchor, WithLogger(logger))

	got := loader.Load("function.txt", "server")
	assert.ElementsMatch(t, []string{"Div", "Mol", "Mul"}, got.Labels())
	assert.Empty(t, buf.String())
	assert.Equal(t, filepath.Join(anchor, "server", "function.txt"), loader.Source("function.txt", "server"))
}

func TestLoadMissingFile(t *testing.T) {
	logger, buf := captureLogger()
	loader := NewLoader(t.TempDir(), WithLogger(logger))

	got := loader.Load("function.txt", "path/to/function/dir")
	assert.True(t, got.IsNull())
	assert.Contains(t, buf.String(), "Function file path/to/function/dir/function.txt does not exist.")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLoadLogsOnlyOnFailureAtDebugLevel(t *testing.T) {
	var global bytes.Buffer
	prevLevel := log.GetLevel()
	log.SetOutput(&global)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(prevLevel)
	})

	anchor := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(anchor, "function.txt"), []byte("Div, Mul"), 0o644))

	logger, buf := captureLogger()
	logger.SetLevel(log.DebugLevel)
	loader := NewLoader(anchor, WithLogger(logger))

	loader.Load("function.txt", ".")
	assert.Empty(t, buf.String())
	assert.Empty(t, global.String())

	loader.Load("missing.txt", ".")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Empty(t, global.String())
}

func TestLoadReadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "file not found",
			err:     &fs.PathError{Op: "open", Path: "function.txt", Err: fs.ErrNotExist},
			message: "does not exist",
		},
		{
			name:    "other error",
			err:     errors.New("random error"),
			message: "Unknown error observed when reading the function file: random error",
		},
		{
			name:    "permission denied",
			err:     &fs.PathError{Op: "open", Path: "function.txt", Err: fs.ErrPermission},
			message: "Unknown error observed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, buf := captureLogger()
			var called bool
			loader := NewLoader("anchor", WithLogger(logger), WithReadFile(func(name string) ([]byte, error) {
				called = true
				assert.Equal(t, filepath.Join("anchor", "mock", "function.txt"), name)
				return nil, tc.err
			}))

			got := loader.Load("function.txt", "mock")
			assert.True(t, called)
			assert.Equal(t, suggest.NullList(), got)
			assert.Contains(t, buf.String(), tc.message)
		})
	}
}

func TestLoadStubbedContent(t *testing.T) {
	logger, buf := captureLogger()
	loader := NewLoader("", WithLogger(logger), WithReadFile(func(string) ([]byte, error) {
		return []byte("Div, , Div,  Div ,"), nil
	}))

	got := loader.Load(DefaultFile, DefaultDir)
	assert.Equal(t, suggest.CandidateList{suggest.NewFunction("Div")}, got)
	assert.Empty(t, buf.String())
}
