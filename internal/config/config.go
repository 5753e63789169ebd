// package config handles app-wide configuration
// provides sane defaults but allows user customization
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings
type Config struct {
	// Bin is the chezmoi executable name or path
	Bin string

	// CommandTimeout bounds mutating and query operations
	CommandTimeout time.Duration

	// ProbeTimeout bounds version and installation checks
	ProbeTimeout time.Duration

	// ExportDir is where exported patch files land
	ExportDir string

	// ExportPrefix names exported patch files
	ExportPrefix string

	// ConfigDir is the base config directory
	ConfigDir string
}

// fileConfig is the yaml shape of the optional config file
// timeouts are in seconds
type fileConfig struct {
	Bin            string `yaml:"bin"`
	CommandTimeout int    `yaml:"command_timeout"`
	ProbeTimeout   int    `yaml:"probe_timeout"`
	ExportDir      string `yaml:"export_dir"`
	ExportPrefix   string `yaml:"export_prefix"`
}

// Default returns a config with sane defaults
// uses standard xdg directories
func Default() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}

	return &Config{
		Bin:            "chezmoi",
		CommandTimeout: 30 * time.Second,
		ProbeTimeout:   5 * time.Second,
		ExportDir:      homeDir,
		ExportPrefix:   "chezman",
		ConfigDir:      filepath.Join(configHome, "chezman"),
	}, nil
}

// Load builds the effective config: defaults, then the yaml file, then
// the env file, then environment variables - later layers win
func Load() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	cfg.applyFile(filepath.Join(cfg.ConfigDir, "chezman.yaml"))

	// the env file just feeds the process environment, overrides below pick it up
	_ = godotenv.Load(filepath.Join(cfg.ConfigDir, "chezman.env"))

	cfg.applyEnv()

	return cfg, nil
}

// applyFile layers in the yaml config file if present
// a missing or malformed file is ignored, defaults still work
func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}

	if fc.Bin != "" {
		c.Bin = fc.Bin
	}
	if fc.CommandTimeout > 0 {
		c.CommandTimeout = time.Duration(fc.CommandTimeout) * time.Second
	}
	if fc.ProbeTimeout > 0 {
		c.ProbeTimeout = time.Duration(fc.ProbeTimeout) * time.Second
	}
	if fc.ExportDir != "" {
		c.ExportDir = fc.ExportDir
	}
	if fc.ExportPrefix != "" {
		c.ExportPrefix = fc.ExportPrefix
	}
}

// applyEnv layers in CHEZMAN_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("CHEZMAN_BIN"); v != "" {
		c.Bin = v
	}
	if v := os.Getenv("CHEZMAN_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.CommandTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("CHEZMAN_PROBE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.ProbeTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("CHEZMAN_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv("CHEZMAN_EXPORT_PREFIX"); v != "" {
		c.ExportPrefix = v
	}
}

// EnsureDirectories creates all necessary directories
// safe to call multiple times
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
