// Package sheet turns tabular task lists into rows.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harrisonrobin/leaguetasks/pkg/model"
)

// Column headers of the task list.
const (
	ColumnTask        = "Task"
	ColumnDescription = "Description"
	ColumnSkill       = "Skill"
	ColumnOther       = "Other reqs"
)

var (
	ErrNotFound      = errors.New("row file not found")
	ErrParse         = errors.New("malformed row file")
	ErrMissingColumn = errors.New("missing column")
)

// Source produces the rows of a task list.
type Source interface {
	Rows(ctx context.Context) ([]model.Row, error)
}

// FromRecords maps raw records to rows. The first record is the header;
// the four task columns are located by exact name and may appear in any
// order. Empty records, which readers produce for blank lines, are dropped.
func FromRecords(records [][]string) ([]model.Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}

	header := records[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	want := []string{ColumnTask, ColumnDescription, ColumnSkill, ColumnOther}
	pos := make([]int, len(want))
	for i, name := range want {
		p, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		pos[i] = p
	}

	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, model.Row{
			Task:        cell(rec, pos[0]),
			Description: cell(rec, pos[1]),
			Skill:       cell(rec, pos[2]),
			Other:       cell(rec, pos[3]),
		})
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func blank(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && rec[0] == "")
}

// CSVFile reads rows from a CSV export.
type CSVFile struct {
	Path string
}

// Rows implements Source.
func (f CSVFile) Rows(ctx context.Context) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("open row file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return FromRecords(records)
}
