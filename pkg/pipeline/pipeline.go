// Package pipeline runs one reconciliation: load, merge, write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/harrisonrobin/leaguetasks/pkg/merge"
	"github.com/harrisonrobin/leaguetasks/pkg/model"
	"github.com/harrisonrobin/leaguetasks/pkg/sheet"
	"github.com/harrisonrobin/leaguetasks/pkg/tasks"
)

// Options configures a run.
type Options struct {
	TasksFile  string
	OutputFile string
	Rows       sheet.Source

	// Validate checks the reference file against the task schema first.
	Validate bool
	// DryRun merges without writing OutputFile.
	DryRun bool

	Logger *log.Logger
}

// Run loads the reference tasks and rows, merges them and writes the result.
// The first failure is returned; nothing is written after an error.
func Run(ctx context.Context, opts Options) (*merge.Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Rows == nil {
		return nil, errors.New("no row source configured")
	}

	refs, err := loadReferences(opts.TasksFile, opts.Validate)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded reference tasks", "path", opts.TasksFile, "count", len(refs))

	rows, err := opts.Rows.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	logger.Info("loaded rows", "count", len(rows))

	result := merge.Merge(rows, refs, merge.Options{Logger: logger})
	logger.Info("merged tasks",
		"tasks", len(result.Tasks),
		"by_name", result.MatchedByName,
		"by_description", result.MatchedByDesc,
		"created", result.Created,
		"headers", result.Headers,
		"skipped", result.Skipped,
	)

	if opts.DryRun {
		logger.Info("dry run, not writing output", "path", opts.OutputFile)
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := tasks.Save(opts.OutputFile, result.Tasks); err != nil {
		return nil, fmt.Errorf("save merged tasks: %w", err)
	}
	logger.Info("wrote merged tasks", "path", opts.OutputFile)
	return result, nil
}

func loadReferences(path string, validate bool) ([]model.Task, error) {
	if !validate {
		refs, err := tasks.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load reference tasks: %w", err)
		}
		return refs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load reference tasks: %w: %s", tasks.ErrNotFound, path)
		}
		return nil, fmt.Errorf("load reference tasks: %w", err)
	}
	if err := tasks.Validate(data); err != nil {
		return nil, fmt.Errorf("validate reference tasks: %w", err)
	}
	refs, err := tasks.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load reference tasks: %w", err)
	}
	return refs, nil
}
