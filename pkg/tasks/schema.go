package tasks

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://github.com/harrisonrobin/leaguetasks/task.schema.json"

//go:embed task.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string // e.g. [3].skills[0].skill
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every violation found in a document.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match ErrInvalid.
func (errs ValidationErrors) Unwrap() error {
	return ErrInvalid
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Validate checks a task document against the embedded schema. Violations
// are returned as ValidationErrors.
func Validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	if t, _ := dec.Token(); t != nil {
		return fmt.Errorf("%w: invalid character %v after top-level value", ErrParse, t)
	}

	if err := s.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return fmt.Errorf("validate tasks: %w", err)
		}
		var errs ValidationErrors
		collect(&errs, ve)
		return errs
	}
	return nil
}

func collect(errs *ValidationErrors, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collect(errs, cause)
	}
}

// pointerToPath turns /3/skills/0 into [3].skills[0].
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if n, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", n)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
