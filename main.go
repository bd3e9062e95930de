package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/harrisonrobin/leaguetasks/pkg/auth"
	"github.com/harrisonrobin/leaguetasks/pkg/config"
	"github.com/harrisonrobin/leaguetasks/pkg/google"
	"github.com/harrisonrobin/leaguetasks/pkg/logging"
	"github.com/harrisonrobin/leaguetasks/pkg/pipeline"
	"github.com/harrisonrobin/leaguetasks/pkg/sheet"
	"github.com/harrisonrobin/leaguetasks/pkg/summary"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// 1. Config file, then flags on top
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return err
	}

	fs := flag.NewFlagSet("leaguetasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.TasksFile, "tasks", cfg.TasksFile, "Reference task JSON file")
	fs.StringVar(&cfg.RowsFile, "rows", cfg.RowsFile, "Task list CSV export")
	fs.StringVar(&cfg.OutputFile, "out", cfg.OutputFile, "Where to write the merged task list")
	fs.StringVar(&cfg.SpreadsheetID, "sheet", cfg.SpreadsheetID, "Google Sheets spreadsheet ID to read rows from instead of -rows")
	fs.StringVar(&cfg.SheetRange, "range", cfg.SheetRange, "A1 range of the task list in the spreadsheet")
	fs.BoolVar(&cfg.Validate, "validate", cfg.Validate, "Validate the reference tasks against the task schema")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON")
	dryRun := fs.Bool("dry-run", false, "Merge and report without writing the output file")
	doAuth := fs.Bool("auth", false, "Authenticate with Google Sheets and exit")
	saveConfig := fs.Bool("save-config", false, "Save the effective settings as the default config")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	// 2. One-shot commands
	if *saveConfig {
		if err := config.Save(cfg); err != nil {
			logger.Error("saving config", "err", err)
			return err
		}
		path, _ := config.GetConfigPath()
		fmt.Fprintf(stdout, "Config saved to: %s\n", path)
		return nil
	}

	if *doAuth {
		if err := auth.Authorize(ctx, logger); err != nil {
			logger.Error("authentication failed", "err", err)
			return err
		}
		logger.Info("authentication successful", "token", auth.TokenFile)
		return nil
	}

	// 3. Pick the row source
	var rows sheet.Source = sheet.CSVFile{Path: cfg.RowsFile}
	if cfg.SpreadsheetID != "" {
		src, err := google.NewClient(ctx, cfg.SpreadsheetID, cfg.SheetRange, logger)
		if err != nil {
			logger.Error("creating Google Sheets client", "err", err)
			return err
		}
		rows = src
	}

	// 4. Merge and report
	result, err := pipeline.Run(ctx, pipeline.Options{
		TasksFile:  cfg.TasksFile,
		OutputFile: cfg.OutputFile,
		Rows:       rows,
		Validate:   cfg.Validate,
		DryRun:     *dryRun,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("Error processing tasks", "err", err)
		return err
	}

	if err := summary.Print(stdout, result.Tasks); err != nil {
		logger.Error("printing summary", "err", err)
		return err
	}
	if !*dryRun {
		fmt.Fprintf(stdout, "\nUpdated tasks have been saved to %s\n", cfg.OutputFile)
	}
	return nil
}
