package index

import (
	"strings"

	"github.com/harrisonrobin/leaguetasks/pkg/model"
	"github.com/harrisonrobin/leaguetasks/pkg/normalize"
)

// MatchKind says which field of a reference task matched a row.
type MatchKind string

const (
	MatchNone        MatchKind = ""
	MatchName        MatchKind = "name"
	MatchDescription MatchKind = "description"
)

type entry struct {
	name        string
	description string
}

// TaskIndex caches the normalized name and description of every reference
// task, in the order they were loaded.
type TaskIndex struct {
	tasks   []model.Task
	entries []entry
}

// NewTaskIndex builds an index over tasks. The slice is only read.
func NewTaskIndex(tasks []model.Task) *TaskIndex {
	idx := &TaskIndex{
		tasks:   tasks,
		entries: make([]entry, len(tasks)),
	}
	for i, t := range tasks {
		idx.entries[i] = entry{
			name:        normalize.Text(t.Name),
			description: normalize.Text(t.Description),
		}
	}
	return idx
}

// Len returns the number of indexed tasks.
func (idx *TaskIndex) Len() int {
	return len(idx.entries)
}

// Match finds the reference task for a row name. An exact normalized name
// match wins over a description substring match; within each pass the first
// task in load order wins. A name that normalizes to nothing is contained in
// every description. The returned task is a copy.
func (idx *TaskIndex) Match(name string) (model.Task, MatchKind, bool) {
	key := normalize.Text(name)

	for i, e := range idx.entries {
		if e.name == key {
			return idx.tasks[i].Clone(), MatchName, true
		}
	}

	for i, e := range idx.entries {
		if strings.Contains(e.description, key) {
			return idx.tasks[i].Clone(), MatchDescription, true
		}
	}

	return model.Task{}, MatchNone, false
}
