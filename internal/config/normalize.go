package config

import (
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePackage()
	c.normalizeAudio()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Database) == ":memory:" {
		c.Paths.Database = ":memory:"
	} else if c.Paths.Database, err = expandPath(strings.TrimSpace(c.Paths.Database)); err != nil {
		return err
	}
	if c.Paths.ProjectsDir, err = expandPath(strings.TrimSpace(c.Paths.ProjectsDir)); err != nil {
		return err
	}
	if c.Paths.TemplatesDir, err = expandPath(strings.TrimSpace(c.Paths.TemplatesDir)); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePackage() {
	c.Package.Version = strings.TrimSpace(c.Package.Version)
	if c.Package.Version == "" {
		c.Package.Version = domain.ScormVersion12
	}
	c.Package.CompletionCriteria = strings.ToLower(strings.TrimSpace(c.Package.CompletionCriteria))
	if c.Package.CompletionCriteria == "" {
		c.Package.CompletionCriteria = string(domain.CompletionAll)
	}
	if strings.TrimSpace(c.Package.OutputDir) == "" {
		c.Package.OutputDir = "."
	}
}

func (c *Config) normalizeAudio() {
	def := domain.DefaultAudioSettings()
	c.Audio.Voice = strings.TrimSpace(c.Audio.Voice)
	if c.Audio.Voice == "" {
		c.Audio.Voice = def.Voice
	}
	if c.Audio.Speed == 0 {
		c.Audio.Speed = def.Speed
	}
	if c.Audio.Pitch == 0 {
		c.Audio.Pitch = def.Pitch
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Endpoint = strings.TrimRight(strings.TrimSpace(c.LLM.Endpoint), "/")
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text", "console":
		c.Logging.Format = defaultLogFormat
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
