package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompleter() *suggest.Completer {
	return suggest.NewCompleter(suggest.CandidateList{
		suggest.NewFunction("Div"),
		suggest.NewFunction("Mol"),
		suggest.NewFunction("Mul"),
	}, suggest.WithLogger(log.New(io.Discard)), suggest.WithSource("function.txt"))
}

func runInput(t *testing.T, input string, showFiltered bool) string {
	t.Helper()
	var out bytes.Buffer
	h := NewInputHandler(testCompleter(), strings.NewReader(input), &out, showFiltered)
	h.logger = log.New(io.Discard)
	require.NoError(t, h.Start())
	return out.String()
}

func TestStartPrintsHeader(t *testing.T) {
	out := runInput(t, "", true)
	assert.Contains(t, out, "3 functions from function.txt")
}

func TestSuggestionsAtLineEnd(t *testing.T) {
	out := runInput(t, "root.x = $\n", false)
	assert.Contains(t, out, "Found 3 suggestions:")
	for _, label := range []string{"Div", "Mol", "Mul"} {
		assert.Contains(t, out, label)
	}
}

func TestNoSuggestionsWithoutTrigger(t *testing.T) {
	out := runInput(t, "root.x = 1\n\n   \n", true)
	assert.NotContains(t, out, "Found")
	assert.NotContains(t, out, "Functions starting")
}

func TestFilteredByTrailingWord(t *testing.T) {
	out := runInput(t, "root.x = $M\n", true)
	assert.NotContains(t, out, "Found")
	assert.Contains(t, out, "Functions starting with 'M':")
	assert.Contains(t, out, "Mol")
	assert.Contains(t, out, "Mul")
	assert.NotContains(t, out, "Div")

	hidden := runInput(t, "root.x = $M\n", false)
	assert.NotContains(t, hidden, "Functions starting")
}

func TestTrailingWord(t *testing.T) {
	testCases := []struct {
		line string
		word string
		ok   bool
	}{
		{"$Div", "Div", true},
		{"x = $Mu", "Mu", true},
		{"x = $", "", false},
		{"x = $Div(y)", "", false},
		{"no trigger", "", false},
		{"$a $b", "b", true},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			word, ok := trailingWord(tc.line)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.word, word)
		})
	}
}
