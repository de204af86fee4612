package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAutosave(); err != nil {
		return err
	}
	if err := c.validatePackage(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.Database == "" {
		return errors.New("paths.database must be set")
	}
	if c.Paths.ProjectsDir == "" {
		return errors.New("paths.projects_dir must be set")
	}
	return nil
}

func (c *Config) validateAutosave() error {
	if c.Autosave.Enabled && c.Autosave.IntervalSeconds <= 0 {
		return fmt.Errorf("autosave.interval_seconds must be positive, got %d", c.Autosave.IntervalSeconds)
	}
	return nil
}

func (c *Config) validatePackage() error {
	if c.Package.Version != domain.ScormVersion12 {
		return fmt.Errorf("package.version %q is not supported; only %s", c.Package.Version, domain.ScormVersion12)
	}
	if !domain.ValidCompletionCriteria[c.Package.CompletionCriteria] {
		return fmt.Errorf("package.completion_criteria %q must be one of all, visited", c.Package.CompletionCriteria)
	}
	if c.Package.PassMark < 0 || c.Package.PassMark > 100 {
		return fmt.Errorf("package.pass_mark must be between 0 and 100, got %d", c.Package.PassMark)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Speed < 0.25 || c.Audio.Speed > 4 {
		return fmt.Errorf("audio.speed must be between 0.25 and 4, got %g", c.Audio.Speed)
	}
	if c.Audio.Pitch < 0.25 || c.Audio.Pitch > 4 {
		return fmt.Errorf("audio.pitch must be between 0.25 and 4, got %g", c.Audio.Pitch)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	u, err := url.Parse(c.LLM.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("llm.endpoint %q must be an http(s) URL", c.LLM.Endpoint)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set when llm.enabled is true")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative, got %d", c.LLM.MaxRetries)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
