// Package tasks reads and writes league task files.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/harrisonrobin/leaguetasks/pkg/model"
)

var (
	ErrNotFound = errors.New("task file not found")
	ErrParse    = errors.New("malformed task file")
	ErrInvalid  = errors.New("task file failed schema validation")
)

// Load reads the reference task file at path.
func Load(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Decode(data)
}

// ParseTasks parses a JSON array of tasks from r.
func ParseTasks(r io.Reader) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON array of tasks.
func Decode(data []byte) ([]model.Task, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}
	if !gjson.ParseBytes(data).IsArray() {
		return nil, fmt.Errorf("%w: expected an array of tasks", ErrParse)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return tasks, nil
}

// Save writes tasks to path as 2-space indented JSON. The file is written
// next to path and renamed into place, so path is either the old content or
// the complete new content.
func Save(path string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
