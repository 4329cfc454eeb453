/*
Package config manages TOML config for wstlserve.

	[functions]
	file = "function.txt"
	dir = "."

	[lsp]
	transport = "stdio"
	address = "127.0.0.1:8085"

	[cli]
	show_filtered = true

The functions path is relative to the directory of the wstlserve executable.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wstlserve/internal/utils"
	"github.com/bastiangx/wstlserve/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// FileName is the default config file name.
const FileName = "config.toml"

// Transports accepted by [lsp] transport.
const (
	TransportStdio     = "stdio"
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

// Config holds the entire config structure
type Config struct {
	Functions FunctionsConfig `toml:"functions"`
	LSP       LSPConfig       `toml:"lsp"`
	CLI       CliConfig       `toml:"cli"`
}

// FunctionsConfig locates the function list file.
type FunctionsConfig struct {
	File string `toml:"file"`
	Dir  string `toml:"dir"`
}

// LSPConfig has language server options.
type LSPConfig struct {
	Transport string `toml:"transport"`
	Address   string `toml:"address"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowFiltered bool `toml:"show_filtered"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Functions: FunctionsConfig{
			File: dictionary.DefaultFile,
			Dir:  dictionary.DefaultDir,
		},
		LSP: LSPConfig{
			Transport: TransportStdio,
			Address:   "127.0.0.1:8085",
		},
		CLI: CliConfig{
			ShowFiltered: true,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.LSP.Transport {
	case TransportStdio, TransportTCP, TransportWebSocket:
	default:
		return fmt.Errorf("unknown lsp transport %q (want %s, %s or %s)",
			c.LSP.Transport, TransportStdio, TransportTCP, TransportWebSocket)
	}
	if c.LSP.Transport != TransportStdio && c.LSP.Address == "" {
		return fmt.Errorf("lsp transport %q needs an address", c.LSP.Transport)
	}
	if c.Functions.File == "" {
		return fmt.Errorf("functions file must not be empty")
	}
	return nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. defaultPath, created with defaults when missing
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath, defaultPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	if defaultPath == "" {
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "functions"); ok {
		extractFunctionsConfig(section, &config.Functions)
	}
	if section, ok := utils.ExtractSection(tempConfig, "lsp"); ok {
		extractLSPConfig(section, &config.LSP)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractFunctionsConfig(data map[string]any, functions *FunctionsConfig) {
	if val, ok := utils.ExtractString(data, "file"); ok {
		functions.File = val
	}
	if val, ok := utils.ExtractString(data, "dir"); ok {
		functions.Dir = val
	}
}

func extractLSPConfig(data map[string]any, lsp *LSPConfig) {
	if val, ok := utils.ExtractString(data, "transport"); ok {
		lsp.Transport = val
	}
	if val, ok := utils.ExtractString(data, "address"); ok {
		lsp.Address = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_filtered"); ok {
		cli.ShowFiltered = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
