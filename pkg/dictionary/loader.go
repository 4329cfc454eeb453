/*
Package dictionary loads the list of Whistle builtin functions offered as completions.

The function file is plain text. Names are separated by commas and/or newlines,
surrounding whitespace is ignored, and empty entries are dropped:

	Div, Mul,
	Sub
	Concat

Duplicates collapse into one candidate. The order of the returned candidates
is the order of the backing set, not the order of the file.

A file that is missing, unreadable, empty, or made only of separators loads as
suggest.NullList. Read failures are logged and never returned.
*/
package dictionary

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

const (
	// DefaultFile is the function file name looked up when none is given.
	DefaultFile = "function.txt"
	// DefaultDir is the directory, relative to the anchor, holding DefaultFile.
	DefaultDir = "."
)

var newlineRuns = regexp.MustCompile(`\n+`)

// ReadFileFunc reads a whole file, like os.ReadFile.
type ReadFileFunc func(name string) ([]byte, error)

// Loader reads function files relative to a fixed anchor directory.
type Loader struct {
	anchorDir string
	readFile  ReadFileFunc
	logger    *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn ReadFileFunc) LoaderOption {
	return func(l *Loader) {
		l.readFile = fn
	}
}

// WithLogger sets the logger receiving read failures.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader resolving paths under anchorDir.
func NewLoader(anchorDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		anchorDir: anchorDir,
		readFile:  os.ReadFile,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the path Load reads for sourcePath and baseDir.
func (l *Loader) Source(sourcePath, baseDir string) string {
	return filepath.Join(l.anchorDir, baseDir, sourcePath)
}

// Load reads anchorDir/baseDir/sourcePath and parses it into candidates.
// It logs one line when the file cannot be read and then parses empty
// content, so the result is NullList.
func (l *Loader) Load(sourcePath, baseDir string) suggest.CandidateList {
	path := l.Source(sourcePath, baseDir)

	content, err := l.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Errorf("Function file %s/%s does not exist.", baseDir, sourcePath)
		} else {
			l.logger.Errorf("Unknown error observed when reading the function file: %v", err)
		}
		content = nil
	}
	return Parse(string(content))
}

// Parse turns the text of a function file into candidates. It returns
// NullList when the text names no function.
func Parse(text string) suggest.CandidateList {
	oneLine := newlineRuns.ReplaceAllString(text, ",")

	set := patricia.NewTrie()
	for _, token := range strings.Split(oneLine, ",") {
		token = strings.TrimSpace(token)
		// trailing commas and blank lines
		if token == "" {
			continue
		}
		set.Insert(patricia.Prefix(token), true)
	}

	var functions suggest.CandidateList
	err := set.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		functions = append(functions, suggest.NewFunction(string(p)))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting function set: %v", err)
	}

	if len(functions) == 0 {
		return suggest.NullList()
	}
	return functions
}
