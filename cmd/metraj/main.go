package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/metraj/internal/analysis"
	"github.com/alexanderramin/metraj/internal/cli"
	"github.com/alexanderramin/metraj/internal/config"
	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/llm"
	"github.com/alexanderramin/metraj/internal/logger"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/alexanderramin/metraj/internal/service"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// METRAJ_CONFIG points at an explicit TOML file; otherwise
	// ~/.metraj/config.toml is used when present.
	cfg, err := config.Load(os.Getenv("METRAJ_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer database.Close()
	log.Debug("database ready", zap.String("path", cfg.DB.Path))

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	itemRepo := repository.NewSQLiteLineItemRepo(database)
	reportRepo := repository.NewSQLiteAnalysisRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(log)

	// Risk analysis uses the model only when it is enabled; the rule-based
	// analyzer stands in otherwise and on every model failure.
	analyzer := analysis.NewDeterministicAnalyzer()
	llmCfg := cfg.LLM()
	if llmCfg.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			llmObserver = llm.NewLogObserver(log)
		}
		analyzer = analysis.NewRiskAnalyzer(llm.NewOllamaClient(llmCfg, llmObserver))
		log.Debug("llm enabled", zap.String("endpoint", llmCfg.Endpoint), zap.String("model", llmCfg.Model))
	}

	// Wire services
	validationSvc := service.NewValidationService(projectRepo, itemRepo, observer)

	app := &cli.App{
		Projects:   service.NewProjectService(projectRepo),
		Items:      service.NewLineItemService(itemRepo, projectRepo, uow, observer),
		Validation: validationSvc,
		Import:     service.NewImportService(uow, observer),
		Analysis:   service.NewAnalysisService(validationSvc, analyzer, reportRepo, observer),
		Export:     service.NewExportService(validationSvc, reportRepo, observer),
	}

	app.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
