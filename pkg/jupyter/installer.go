// Package jupyter registers the language server with jupyter-lsp by writing
// its spec into jupyter_notebook_config.json.
package jupyter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/bastiangx/wstlserve/internal/logger"
	"github.com/bastiangx/wstlserve/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	// ServerName is the key of the spec under language_servers.
	ServerName = "wstl-language-server"
	// legacyServerName was used by older installs and is replaced on overwrite.
	legacyServerName = "wstl_language_server"

	ConfigFileName   = "jupyter_notebook_config.json"
	DefaultConfigDir = "/usr/local/etc/jupyter"

	// specVersion is the jupyter-lsp spec schema version, not the server version.
	specVersion = 2
)

var (
	managerPath = []string{"LanguageServerManager"}
	serversPath = []string{"LanguageServerManager", "language_servers"}
)

// DefaultConfigPath returns the notebook config file, honouring JUPYTER_CONFIG_DIR.
func DefaultConfigPath() string {
	dir := os.Getenv("JUPYTER_CONFIG_DIR")
	if dir == "" {
		dir = DefaultConfigDir
	}
	return filepath.Join(dir, ConfigFileName)
}

// Spec returns the jupyter-lsp server spec launching binary over stdio.
func Spec(binary string) map[string]any {
	return map[string]any{
		"version":      specVersion,
		"argv":         []any{binary, "--stdio"},
		"languages":    []any{"wstl"},
		"display_name": ServerName,
		"mime_types":   []any{"text/x-wstl"},
	}
}

// Installer merges the server spec into a notebook config.
type Installer struct {
	binary    string
	in        io.Reader
	out       io.Writer
	assumeYes bool
	logger    *log.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithPrompt sets where overwrite confirmations are read from and asked on.
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(i *Installer) {
		i.in = in
		i.out = out
	}
}

// WithAssumeYes answers yes to every overwrite confirmation.
func WithAssumeYes(yes bool) Option {
	return func(i *Installer) {
		i.assumeYes = yes
	}
}

// NewInstaller creates an installer for the server at binary.
func NewInstaller(binary string, opts ...Option) *Installer {
	i := &Installer{
		binary: binary,
		in:     os.Stdin,
		out:    os.Stderr,
		logger: logger.New("jupyter"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install writes the spec into the config file at path, creating the file
// and its directory when missing.
func (i *Installer) Install(path string) error {
	dir := filepath.Dir(path)
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("unable to create the directory %s, enable write permission or create it manually: %w", dir, err)
	}

	var existing []byte
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		existing = data
	case errors.Is(err, fs.ErrNotExist):
		i.logger.Debug("No notebook config, creating one", "path", path)
	default:
		return fmt.Errorf("unable to read the file %s: %w", path, err)
	}

	merged, err := i.Merge(existing, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Merge returns config with the spec merged in, formatted with two space
// indentation and a trailing newline. An empty config yields a fresh one.
// path is only used in the overwrite prompt.
func (i *Installer) Merge(config []byte, path string) ([]byte, error) {
	var root *gabs.Container
	if len(strings.TrimSpace(string(config))) == 0 {
		root = gabs.New()
	} else {
		parsed, err := gabs.ParseJSON(config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		root = parsed
	}

	spec := Spec(i.binary)
	specPath := append(append([]string{}, serversPath...), ServerName)
	legacyPath := append(append([]string{}, serversPath...), legacyServerName)

	switch {
	case !root.Exists(managerPath...):
		if _, err := root.Set(true, "LanguageServerManager", "autodetect"); err != nil {
			return nil, err
		}
		if _, err := root.Set(spec, specPath...); err != nil {
			return nil, err
		}
	case !root.Exists(serversPath...):
		if _, err := root.Set(spec, specPath...); err != nil {
			return nil, err
		}
	case root.Exists(specPath...) || root.Exists(legacyPath...):
		overwrite, err := i.confirm(path)
		if err != nil {
			return nil, err
		}
		if !overwrite {
			i.logger.Info("Keeping the existing spec", "path", path)
			break
		}
		if _, err := root.Set(spec, specPath...); err != nil {
			return nil, err
		}
		if root.Exists(legacyPath...) {
			if err := root.Delete(legacyPath...); err != nil {
				return nil, err
			}
		}
	default:
		if _, err := root.Set(spec, specPath...); err != nil {
			return nil, err
		}
	}

	return append(root.BytesIndent("", "  "), '\n'), nil
}

// confirm asks until it gets y, yes, n or no. End of input counts as no.
func (i *Installer) confirm(path string) (bool, error) {
	if i.assumeYes {
		return true, nil
	}

	scanner := bufio.NewScanner(i.in)
	fmt.Fprintf(i.out, "wstl language server spec already exists in %s. Do you want to overwrite it?[y/n] ", path)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprint(i.out, "please make a valid selection [y/n] ")
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return false, nil
}
