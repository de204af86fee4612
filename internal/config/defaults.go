package config

import (
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/llm"
)

const (
	defaultConfigPath      = "~/.config/scormbuilder/config.toml"
	defaultDatabasePath    = "~/.scormbuilder/scormbuilder.db"
	defaultProjectsDir     = "~/.scormbuilder/projects"
	defaultTemplatesDir    = "~/.scormbuilder/templates"
	defaultAutosaveSeconds = 30
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	scorm := domain.DefaultScormConfig()
	draft := llm.DefaultConfig()
	return Config{
		Paths: Paths{
			Database:     defaultDatabasePath,
			ProjectsDir:  defaultProjectsDir,
			TemplatesDir: defaultTemplatesDir,
		},
		Autosave: Autosave{
			Enabled:         true,
			IntervalSeconds: defaultAutosaveSeconds,
		},
		Package: Package{
			Version:            scorm.Version,
			CompletionCriteria: string(scorm.CompletionCriteria),
			PassMark:           scorm.PassingScore,
			OutputDir:          ".",
		},
		Audio: domain.DefaultAudioSettings(),
		LLM: LLM{
			Enabled:        draft.Enabled,
			Endpoint:       draft.Endpoint,
			Model:          draft.Model,
			TimeoutSeconds: int(draft.Timeout.Seconds()),
			MaxRetries:     draft.MaxRetries,
			Temperature:    draft.Temperature,
			MaxTokens:      draft.MaxTokens,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
