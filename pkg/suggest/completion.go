package suggest

import (
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Position is a zero-based cursor location. Character counts the UTF-16
// code units before the cursor on Line.
type Position struct {
	Line      int
	Character int
}

// SuggestFor returns items when the character right before position is
// TriggerChar, and NullList otherwise.
//
// Out of range positions log one line to logger. A valid position that is
// simply not preceded by the trigger is the normal case and logs nothing.
// items is returned as is, not copied.
func SuggestFor(logger *log.Logger, document string, position Position, items CandidateList) CandidateList {
	if logger == nil {
		logger = log.Default()
	}

	lines := strings.Split(document, "\n")
	if position.Line < 0 || position.Line >= len(lines) {
		logger.Warnf("Line index out of bound. Expected range: [0, %d], received index: %d",
			len(lines)-1, position.Line)
		return NullList()
	}

	line := utf16.Encode([]rune(lines[position.Line]))
	if position.Character < 1 || position.Character > len(line) {
		logger.Warnf("Character index out of bound. Expected range: [1, %d], received index: %d",
			len(line), position.Character)
		return NullList()
	}

	if line[position.Character-1] == TriggerChar {
		return items
	}
	return NullList()
}

// Completer holds the function list loaded once at startup and answers
// completion requests against it. It is read-only after construction and
// safe for concurrent use.
type Completer struct {
	functions CandidateList
	trie      *patricia.Trie
	source    string
	logger    *log.Logger
}

// Option configures a Completer.
type Option func(*Completer)

// WithLogger sets the logger used for out of range diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Completer) {
		c.logger = logger
	}
}

// WithSource records the path the functions were loaded from.
func WithSource(path string) Option {
	return func(c *Completer) {
		c.source = path
	}
}

// NewCompleter creates a completer serving functions. An empty list is
// replaced by NullList.
func NewCompleter(functions CandidateList, opts ...Option) *Completer {
	if len(functions) == 0 {
		functions = NullList()
	}
	c := &Completer{
		functions: functions,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.trie = buildTrie(functions)

	log.Debugf("Completer ready with %d functions", c.Len())
	return c
}

// Suggest evaluates position in document against the loaded functions.
func (c *Completer) Suggest(document string, position Position) CandidateList {
	return SuggestFor(c.logger, document, position, c.functions)
}

// Functions returns the loaded candidate list.
func (c *Completer) Functions() CandidateList {
	return c.functions
}

// Len returns the number of loaded functions, 0 for NullList.
func (c *Completer) Len() int {
	if c.functions.IsNull() {
		return 0
	}
	return len(c.functions)
}

// Source returns the path the functions were loaded from.
func (c *Completer) Source() string {
	return c.source
}
