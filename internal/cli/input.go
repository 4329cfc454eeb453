// Package cli handles cmd line input and suggestions for DBG and testing completions
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/bastiangx/wstlserve/internal/logger"
	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	kindStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// InputHandler reads lines and prints the completions a client would get
// with the cursor at the end of each line.
type InputHandler struct {
	completer    suggest.ICompleter
	in           io.Reader
	out          io.Writer
	logger       *log.Logger
	showFiltered bool
	requestCount int
}

// NewInputHandler creates a handler reading from in and printing to out.
// With showFiltered, a line ending in "$word" also lists the functions
// starting with word.
func NewInputHandler(completer suggest.ICompleter, in io.Reader, out io.Writer, showFiltered bool) *InputHandler {
	return &InputHandler{
		completer:    completer,
		in:           in,
		out:          out,
		logger:       logger.Default("cli"),
		showFiltered: showFiltered,
	}
}

// Start begins the interface loop. It returns nil once input is exhausted.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, headerStyle.Render("wstlserve CLI [DBG]"))
	fmt.Fprintf(h.out, "%d functions from %s\n", h.completer.Len(), h.completer.Source())
	fmt.Fprintln(h.out, "type a line and press Enter to complete at its end (Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	position := suggest.Position{Line: 0, Character: len(utf16.Encode([]rune(line)))}

	start := time.Now()
	suggestions := h.completer.Suggest(line, position)
	h.logger.Debugf("Took [ %v ] for request %d", time.Since(start), h.requestCount)

	if suggestions.IsNull() {
		h.logger.Warnf("No suggestions at column %d", position.Character)
	} else {
		fmt.Fprintf(h.out, "Found %d suggestions:\n", len(suggestions))
		h.print(suggestions)
	}

	if !h.showFiltered {
		return
	}
	word, ok := trailingWord(line)
	if !ok {
		return
	}
	filtered := h.completer.Filter(word)
	if filtered.IsNull() {
		h.logger.Warnf("No functions start with '%s'", word)
		return
	}
	fmt.Fprintf(h.out, "Functions starting with '%s':\n", word)
	h.print(filtered)
}

func (h *InputHandler) print(candidates suggest.CandidateList) {
	for i, c := range candidates {
		fmt.Fprintf(h.out, "%3d. %s %s\n", i+1, labelStyle.Render(c.Label), kindStyle.Render(c.Kind.String()))
	}
}

// trailingWord returns the text after the last trigger character when it
// forms a single non-empty word running to the end of line.
func trailingWord(line string) (string, bool) {
	idx := strings.LastIndexByte(line, byte(suggest.TriggerChar))
	if idx < 0 {
		return "", false
	}
	word := line[idx+1:]
	if word == "" || strings.ContainsAny(word, " \t()[]{},.:;=") {
		return "", false
	}
	return word, true
}
