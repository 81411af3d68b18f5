package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	LockFile string `toml:"lock_file"`
}

// User maps an API bearer token to an owner identity.
type User struct {
	Name  string `toml:"name"`
	Token string `toml:"token"`
}

// Auth contains the API token table.
type Auth struct {
	Users []User `toml:"users"`
}

// Conversion contains conversion execution settings.
type Conversion struct {
	ConvertTimeout int   `toml:"convert_timeout"`
	FetchTimeout   int   `toml:"fetch_timeout"`
	MaxFetchMiB    int64 `toml:"max_fetch_mib"`
	MinFreeGiB     int   `toml:"min_free_gib"`
}

// Tools names the external converter binaries.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	MagickBinary  string `toml:"magick_binary"`
	SofficeBinary string `toml:"soffice_binary"`
	PandocBinary  string `toml:"pandoc_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for convertx.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Auth       Auth       `toml:"auth"`
	Conversion Conversion `toml:"conversion"`
	Tools      Tools      `toml:"tools"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/convertx/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found on disk.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("convertx.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.JobsRoot(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JobsRoot returns the directory holding per-job working directories.
func (c *Config) JobsRoot() string {
	return filepath.Join(c.Paths.DataDir, "jobs")
}

// LockFilePath returns the daemon lock file location.
func (c *Config) LockFilePath() string {
	if strings.TrimSpace(c.Paths.LockFile) != "" {
		return c.Paths.LockFile
	}
	return filepath.Join(c.Paths.DataDir, "convertxd.lock")
}

// ConvertTimeout returns the per-invocation backend timeout.
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Conversion.ConvertTimeout) * time.Second
}

// FetchTimeout returns the timeout for fetching remote source files.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Conversion.FetchTimeout) * time.Second
}

// OwnerForToken resolves an API bearer token to an owner identity.
func (c *Config) OwnerForToken(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	for _, user := range c.Auth.Users {
		if user.Token == token {
			return user.Name, true
		}
	}
	return "", false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
