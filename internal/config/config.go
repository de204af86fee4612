package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/llm"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths holds on-disk locations.
type Paths struct {
	Database     string `toml:"database"`
	ProjectsDir  string `toml:"projects_dir"`
	TemplatesDir string `toml:"templates_dir"`
}

// Autosave controls the periodic wizard snapshot.
type Autosave struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Package holds defaults applied to new projects' SCORM settings.
type Package struct {
	Version            string `toml:"version"`
	CompletionCriteria string `toml:"completion_criteria"`
	PassMark           int    `toml:"pass_mark"`
	OutputDir          string `toml:"output_dir"`
}

// LLM configures optional course drafting through an Ollama-compatible
// server.
type LLM struct {
	Enabled        bool    `toml:"enabled"`
	Endpoint       string  `toml:"endpoint"`
	Model          string  `toml:"model"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxRetries     int     `toml:"max_retries"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full scormbuilder configuration.
type Config struct {
	Paths    Paths                `toml:"paths"`
	Autosave Autosave             `toml:"autosave"`
	Package  Package              `toml:"package"`
	Audio    domain.AudioSettings `toml:"audio"`
	LLM      LLM                  `toml:"llm"`
	Logging  Logging              `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses and validates a configuration file, then layers
// environment overrides on top. A missing file is not an error; the
// returned bool reports whether one was read.
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

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
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
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// applyEnv overrides file values with SCORMBUILDER_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("SCORMBUILDER_DB"); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv("SCORMBUILDER_PROJECTS_DIR"); v != "" {
		c.Paths.ProjectsDir = v
	}
	if v := os.Getenv("SCORMBUILDER_TEMPLATES"); v != "" {
		c.Paths.TemplatesDir = v
	}
	if v := os.Getenv("SCORMBUILDER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SCORMBUILDER_LLM_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SCORMBUILDER_LLM_ENABLED: %w", err)
		}
		c.LLM.Enabled = enabled
	}
	if v := os.Getenv("SCORMBUILDER_LLM_ENDPOINT"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv("SCORMBUILDER_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SCORMBUILDER_AUTOSAVE_SECONDS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SCORMBUILDER_AUTOSAVE_SECONDS: %w", err)
		}
		c.Autosave.IntervalSeconds = n
	}
	return nil
}

// AutosaveInterval returns the autosave period, or zero when disabled.
func (c *Config) AutosaveInterval() time.Duration {
	if !c.Autosave.Enabled {
		return 0
	}
	return time.Duration(c.Autosave.IntervalSeconds) * time.Second
}

// ScormConfig returns the package defaults as a project SCORM config.
func (c *Config) ScormConfig() domain.ScormConfig {
	return domain.ScormConfig{
		Version:            c.Package.Version,
		CompletionCriteria: domain.CompletionCriteria(c.Package.CompletionCriteria),
		PassingScore:       c.Package.PassMark,
	}
}

// LLMConfig returns the drafting client settings.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Enabled:     c.LLM.Enabled,
		Endpoint:    c.LLM.Endpoint,
		Model:       c.LLM.Model,
		Timeout:     time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		MaxRetries:  c.LLM.MaxRetries,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// EnsureDirectories creates the database and projects directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ProjectsDir}
	if c.Paths.Database != "" && c.Paths.Database != ":memory:" {
		dirs = append(dirs, filepath.Dir(c.Paths.Database))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
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

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample configuration to path.
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
