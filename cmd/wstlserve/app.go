package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	wcli "github.com/bastiangx/wstlserve/internal/cli"
	"github.com/bastiangx/wstlserve/internal/logger"
	"github.com/bastiangx/wstlserve/internal/utils"
	"github.com/bastiangx/wstlserve/pkg/config"
	"github.com/bastiangx/wstlserve/pkg/dictionary"
	"github.com/bastiangx/wstlserve/pkg/jupyter"
	"github.com/bastiangx/wstlserve/pkg/lsp"
	"github.com/bastiangx/wstlserve/pkg/server"
	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0-beta"

const (
	AppName = "wstlserve"
	gh      = "https://github.com/bastiangx/wstlserve"
)

const (
	flagDebug     = "debug"
	flagConfig    = "config"
	flagFunctions = "functions"
	flagDir       = "dir"
	flagStdio     = "stdio"
	flagTCP       = "tcp"
	flagWS        = "ws"
)

// runtimeEnv is what every command needs after startup.
type runtimeEnv struct {
	config    *config.Config
	completer *suggest.Completer
}

func newApp() *cli.App {
	return &cli.App{
		Name:    AppName,
		Usage:   "Whistle function completions over LSP",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"d"},
				Usage:   "toggle debug logs with timestamps",
			},
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "path to a config.toml overriding the default location",
			},
			&cli.StringFlag{
				Name:  flagFunctions,
				Usage: "function list file, relative to --dir unless absolute",
			},
			&cli.StringFlag{
				Name:  flagDir,
				Usage: "directory of the function file, relative to the executable unless absolute",
			},
			&cli.BoolFlag{
				Name:  flagStdio,
				Usage: "serve the language server on stdin/stdout",
			},
			&cli.StringFlag{
				Name:  flagTCP,
				Usage: "serve the language server on a TCP `ADDRESS`",
			},
			&cli.StringFlag{
				Name:  flagWS,
				Usage: "serve the language server on a WebSocket `ADDRESS`",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.Bool(flagDebug))
			return nil
		},
		Action: runLSP,
		Commands: []*cli.Command{
			{
				Name:   "ipc",
				Usage:  "run the MessagePack completion server on stdin/stdout",
				Action: runIPC,
			},
			{
				Name:  "cli",
				Usage: "complete lines typed on stdin, for testing and debugging",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "filtered",
						Usage: "also list functions starting with a trailing $word (default from config)",
					},
				},
				Action: runCLI,
			},
			{
				Name:  "install-spec",
				Usage: "register the language server in jupyter_notebook_config.json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "notebook config file to update",
						Value: jupyter.DefaultConfigPath(),
					},
					&cli.StringFlag{
						Name:  "binary",
						Usage: "server binary written into the spec (default this executable)",
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "overwrite an existing spec without asking",
					},
				},
				Action: runInstallSpec,
			},
			{
				Name:   "version",
				Usage:  "show version info",
				Action: runVersion,
			},
		},
	}
}

// setup resolves paths, loads config with flag overrides and loads the
// function list.
func setup(c *cli.Context) (*runtimeEnv, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	defaultPath, err := pr.GetConfigPath(config.FileName)
	if err != nil {
		log.Warnf("Failed to determine config path: %v", err)
		defaultPath = ""
	}
	cfg, activePath, err := config.LoadConfigWithPriority(c.String(flagConfig), defaultPath)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if c.IsSet(flagFunctions) {
		cfg.Functions.File = c.String(flagFunctions)
	}
	if c.IsSet(flagDir) {
		cfg.Functions.Dir = c.String(flagDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug("Runtime", "info", pr.GetRuntimeInfo())
	return &runtimeEnv{
		config:    cfg,
		completer: loadCompleter(pr, cfg.Functions),
	}, nil
}

// loadCompleter builds the completer from the function file. Relative paths
// are anchored at the executable directory; an absolute file or dir is
// used as is.
func loadCompleter(pr *utils.PathResolver, functions config.FunctionsConfig) *suggest.Completer {
	path := functions.File
	if !filepath.IsAbs(path) {
		path = pr.ResolveRelativePath(filepath.Join(functions.Dir, functions.File))
	}
	file, dir := filepath.Base(path), filepath.Dir(path)

	loader := dictionary.NewLoader("", dictionary.WithLogger(logger.New("loader")))
	list := loader.Load(file, dir)
	return suggest.NewCompleter(list,
		suggest.WithSource(loader.Source(file, dir)),
		suggest.WithLogger(logger.New("suggest")))
}

// lspTransport picks the transport from flags, falling back to config.
func lspTransport(c *cli.Context, cfg config.LSPConfig) (string, string, error) {
	var chosen []string
	if c.Bool(flagStdio) {
		chosen = append(chosen, config.TransportStdio)
	}
	if c.IsSet(flagTCP) {
		chosen = append(chosen, config.TransportTCP)
	}
	if c.IsSet(flagWS) {
		chosen = append(chosen, config.TransportWebSocket)
	}

	switch len(chosen) {
	case 0:
		return cfg.Transport, cfg.Address, nil
	case 1:
	default:
		return "", "", errors.New("only one of --stdio, --tcp and --ws may be given")
	}

	switch chosen[0] {
	case config.TransportTCP:
		return config.TransportTCP, c.String(flagTCP), nil
	case config.TransportWebSocket:
		return config.TransportWebSocket, c.String(flagWS), nil
	default:
		return config.TransportStdio, "", nil
	}
}

func runLSP(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	transport, address, err := lspTransport(c, env.config.LSP)
	if err != nil {
		return err
	}

	srv := lsp.New(env.completer,
		lsp.WithVersion(Version),
		lsp.WithDebug(c.Bool(flagDebug)))
	return srv.Run(transport, address)
}

func runIPC(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	log.Debug("spawning IPC", "functions", env.completer.Len())
	if err := server.NewServer(env.completer, os.Stdin, os.Stdout).Start(); err != nil {
		return fmt.Errorf("ipc server: %w", err)
	}
	return nil
}

func runCLI(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	log.SetReportTimestamp(false)

	showFiltered := env.config.CLI.ShowFiltered
	if c.IsSet("filtered") {
		showFiltered = c.Bool("filtered")
	}
	return wcli.NewInputHandler(env.completer, os.Stdin, os.Stdout, showFiltered).Start()
}

func runInstallSpec(c *cli.Context) error {
	binary := c.String("binary")
	if binary == "" {
		pr, err := utils.NewPathResolver()
		if err != nil {
			return fmt.Errorf("failed to locate the server binary, pass --binary: %w", err)
		}
		binary = pr.GetExecutablePath()
	}

	path := c.String("path")
	installer := jupyter.NewInstaller(binary, jupyter.WithAssumeYes(c.Bool("yes")))
	if err := installer.Install(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Spec file is ready at %s\n", path)
	return nil
}

// runVersion prints the version banner to the app error writer.
func runVersion(c *cli.Context) error {
	logger := log.NewWithOptions(c.App.ErrWriter, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wstlserve ] Whistle function completions")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
	return nil
}
