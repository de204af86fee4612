package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/scormbuilder/internal/cli"
	"github.com/alexanderramin/scormbuilder/internal/config"
	"github.com/alexanderramin/scormbuilder/internal/db"
	"github.com/alexanderramin/scormbuilder/internal/llm"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/template"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		// The validate report already explains an invalid package.
		if !errors.Is(err, cli.ErrPackageInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.Boot = func(ctx context.Context, opts cli.GlobalOptions) error {
		return boot(ctx, app, opts)
	}
	defer app.Release()

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

// boot loads the config and wires the database and services into app.
func boot(ctx context.Context, app *cli.App, opts cli.GlobalOptions) error {
	cfg, cfgPath, found, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	if found {
		logger.DebugContext(ctx, "config loaded", logging.String("path", cfgPath))
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	wire(app, cfg, database, logger)
	app.Close = database.Close
	return nil
}

func wire(app *cli.App, cfg *config.Config, database *sql.DB, logger *slog.Logger) {
	observer := service.NewLogUseCaseObserver(logging.NewComponentLogger(logger, "service"))

	projectRepo := repository.NewSQLiteProjectRepo(database)
	mediaRepo := repository.NewSQLiteMediaRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	bridge := service.NewSQLiteBridge(database, uow, observer)

	media := service.NewMediaService(mediaRepo, logger, observer)
	app.Projects = service.NewProjectService(bridge, projectRepo, mediaRepo, service.ProjectServiceConfig{
		ProjectsDir: cfg.Paths.ProjectsDir,
		Logger:      logger,
		Notifier:    cli.NewNotifier(os.Stderr),
		Observer:    observer,
	})
	app.Media = media
	app.Imports = service.NewCourseImportService(observer)
	app.Builds = service.NewBuildService(media, cfg.Package.OutputDir, logger, observer)
	app.Templates = func() (*template.Registry, []string, error) {
		return template.LoadRegistry(cfg.Paths.TemplatesDir)
	}

	if draft := cfg.LLMConfig(); draft.Enabled {
		app.Drafts = llm.NewOllamaClient(draft, llm.NewLogObserver(logger))
	}

	app.Logger = logger
	app.Package = cfg.ScormConfig()
	app.Audio = cfg.Audio
	app.AutosaveInterval = cfg.AutosaveInterval()
}
