package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/gridlayout/internal/cli"
	"github.com/alexanderramin/gridlayout/internal/config"
	"github.com/alexanderramin/gridlayout/internal/db"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Piped output gets plain text and machine-readable logs.
	if !isTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	fragmentRepo := repository.NewSQLiteFragmentRepo(database)
	types := itemtype.NewRegistry()
	if err := types.Register(itemtype.NewFragmentType(fragmentRepo)); err != nil {
		return err
	}
	layoutRepo := repository.NewSQLiteLayoutRepo(database, types)
	tokenRepo := repository.NewSQLiteTokenRepo(database)

	var observers []service.UseCaseObserver
	if cfg.LogCalls {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}
	renderer := render.NewRenderer(types, render.WithLogger(logger))

	// Wire unit of work for blueprint imports
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Layouts:    service.NewLayoutService(layoutRepo, tokenRepo, renderer, cfg.BaseURL, observers...),
		Edits:      service.NewEditService(layoutRepo, types, observers...),
		Tokens:     service.NewTokenService(tokenRepo, layoutRepo, observers...),
		Pages:      service.NewPageService(layoutRepo, tokenRepo, renderer, cfg.BaseURL, cfg.DefaultRegion, observers...),
		Fragments:  service.NewFragmentService(fragmentRepo, observers...),
		Blueprints: service.NewBlueprintService(uow, layoutRepo, types, observers...),
		Logger:     logger,
		Addr:       cfg.Addr,
	}

	return cli.NewRootCmd(app).Execute()
}
