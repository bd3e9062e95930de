// Package merge reconciles spreadsheet rows with reference task records.
package merge

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harrisonrobin/leaguetasks/pkg/index"
	"github.com/harrisonrobin/leaguetasks/pkg/model"
)

const (
	// NewIDPrefix marks identifiers of synthesized tasks.
	NewIDPrefix = "NEW_"

	DefaultLevel = "1"
	DefaultTier  = "Easy"
	DefaultArea  = "General"

	HeaderDescription = "Section Header"
)

// Options controls a merge run.
type Options struct {
	// Logger receives one debug line per row. Nil discards.
	Logger *log.Logger
}

// Result holds the merged task list and what happened to each row.
type Result struct {
	Tasks         []model.Task
	MatchedByName int // Rows matched on the task name
	MatchedByDesc int // Rows matched on a description substring
	Created       int // Task rows with no reference match
	Headers       int // Section header rows
	Skipped       int // Rows with an empty task name
}

// Matched returns the number of rows merged into a reference task.
func (r *Result) Matched() int {
	return r.MatchedByName + r.MatchedByDesc
}

// IsSectionHeader reports whether a row name looks like a table divider
// rather than a task.
func IsSectionHeader(name string) bool {
	return strings.Contains(name, ":") || strings.Contains(name, "Pt.")
}

// ParseSkills splits a comma separated skill list. Every skill gets the
// default level.
func ParseSkills(text string) []model.Skill {
	skills := []model.Skill{}
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		skills = append(skills, model.Skill{Skill: name, Level: DefaultLevel})
	}
	return skills
}

// NewTask synthesizes a task for a row that has no reference record. The
// identifier is derived from sort, which must be unique within a run.
func NewTask(name, description, skills, other string, sort int) model.Task {
	if description == "" {
		description = name
	}
	return model.Task{
		ID:            NewIDPrefix + strconv.Itoa(sort),
		Name:          name,
		Description:   description,
		SortID:        model.Text(strconv.Itoa(sort)),
		Skills:        ParseSkills(skills),
		Other:         other,
		Tier:          DefaultTier,
		Area:          DefaultArea,
		WorldPosition: model.Position{},
		RequiredItems: []json.RawMessage{},
	}
}

// Merge walks rows in order and produces one task per row with a non-empty
// name. Sort ids run 1..K over the processed rows; skipped rows do not take
// a slot. refs is never modified.
func Merge(rows []model.Row, refs []model.Task, opts Options) *Result {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	idx := index.NewTaskIndex(refs)
	result := &Result{Tasks: make([]model.Task, 0, len(rows))}
	sort := 1

	for i, row := range rows {
		if row.Task == "" {
			result.Skipped++
			logger.Debug("skipping row without task name", "row", i+1)
			continue
		}

		if IsSectionHeader(row.Task) {
			result.Tasks = append(result.Tasks, NewTask(row.Task, HeaderDescription, "", "", sort))
			result.Headers++
			logger.Debug("section header", "row", i+1, "name", row.Task, "sort", sort)
			sort++
			continue
		}

		task, kind, ok := idx.Match(row.Task)
		if !ok {
			result.Tasks = append(result.Tasks, NewTask(row.Task, row.Description, row.Skill, row.Other, sort))
			result.Created++
			logger.Debug("new task", "row", i+1, "name", row.Task, "sort", sort)
			sort++
			continue
		}

		task.SortID = model.Text(strconv.Itoa(sort))
		if row.Description != "" {
			task.Description = row.Description
		}
		if row.Other != "" {
			task.Other = row.Other
		}
		result.Tasks = append(result.Tasks, task)

		switch kind {
		case index.MatchName:
			result.MatchedByName++
		case index.MatchDescription:
			result.MatchedByDesc++
		}
		logger.Debug("matched task", "row", i+1, "name", row.Task, "id", task.ID, "by", kind, "sort", sort)
		sort++
	}

	return result
}
