// Package summary prints what a merge produced.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/leaguetasks/pkg/merge"
	"github.com/harrisonrobin/leaguetasks/pkg/model"
)

// PreviewSize is how many tasks Print lists individually.
const PreviewSize = 5

// Counts splits tasks into synthesized and reference-backed entries.
type Counts struct {
	Total    int
	New      int
	Existing int
}

// Count reports how many tasks carry a synthesized identifier.
func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, merge.NewIDPrefix) {
			c.New++
		}
	}
	c.Existing = c.Total - c.New
	return c
}

// Print writes the task counts followed by the first few tasks.
func Print(w io.Writer, tasks []model.Task) error {
	c := Count(tasks)

	var b strings.Builder
	fmt.Fprintf(&b, "\nProcessed %d tasks:\n", c.Total)
	fmt.Fprintf(&b, "- %d new tasks created\n", c.New)
	fmt.Fprintf(&b, "- %d existing tasks updated\n", c.Existing)

	b.WriteString("\nExample of first few tasks:\n")
	for i, t := range tasks {
		if i == PreviewSize {
			break
		}
		fmt.Fprintf(&b, "\nTask: %s\n", t.Name)
		fmt.Fprintf(&b, "Sort ID: %s\n", t.SortID)
		fmt.Fprintf(&b, "ID: %s\n", t.ID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
