package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Text is a string field that also accepts JSON numbers and null on input.
// Exported league data is not consistent about quoting sort ids and levels.
type Text string

// UnmarshalJSON implements the json.Unmarshaler interface for Text.
func (t *Text) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	switch res.Type {
	case gjson.Null:
		*t = ""
	case gjson.String:
		*t = Text(res.Str)
	case gjson.Number:
		*t = Text(res.Raw)
	default:
		return fmt.Errorf("expected string or number, got %s", res.Raw)
	}
	return nil
}

// Skill is a skill requirement of a task.
type Skill struct {
	Skill string `json:"skill"`
	Level Text   `json:"level"`
}

// Position is a point in the game world.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Task is a single league task record.
type Task struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	SortID        Text              `json:"clientSortId"`
	Skills        []Skill           `json:"skills"`
	Other         string            `json:"other"`
	Tier          string            `json:"tier"`
	Area          string            `json:"area"`
	WorldPosition Position          `json:"worldPosition"`
	RequiredItems []json.RawMessage `json:"requiredItems"`
	NPC           json.RawMessage   `json:"NPC"`

	// raw is the source object for tasks read from a reference file. It keeps
	// keys this type does not model.
	raw []byte
}

type taskAlias Task

// scalar fields are rewritten into raw on output when their value changed;
// composite fields are carried over from raw as read.
var scalarKeys = []string{"id", "name", "description", "clientSortId", "other", "tier", "area"}

// UnmarshalJSON implements the json.Unmarshaler interface for Task.
func (t *Task) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) || !gjson.ParseBytes(b).IsObject() {
		return fmt.Errorf("task must be a JSON object")
	}
	var a taskAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	a.raw = bytes.Clone(b)
	*t = Task(a)
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Task.
func (t Task) MarshalJSON() ([]byte, error) {
	if t.raw == nil {
		a := taskAlias(t)
		if a.Skills == nil {
			a.Skills = []Skill{}
		}
		if a.RequiredItems == nil {
			a.RequiredItems = []json.RawMessage{}
		}
		return json.Marshal(a)
	}

	values := map[string]string{
		"id":           t.ID,
		"name":         t.Name,
		"description":  t.Description,
		"clientSortId": string(t.SortID),
		"other":        t.Other,
		"tier":         t.Tier,
		"area":         t.Area,
	}
	out := bytes.Clone(t.raw)
	for _, key := range scalarKeys {
		if unchanged(gjson.GetBytes(out, key), values[key]) {
			continue
		}
		var err error
		out, err = sjson.SetBytes(out, key, values[key])
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	return out, nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Skills != nil {
		c.Skills = append([]Skill(nil), t.Skills...)
	}
	if t.RequiredItems != nil {
		c.RequiredItems = make([]json.RawMessage, len(t.RequiredItems))
		for i, item := range t.RequiredItems {
			c.RequiredItems[i] = bytes.Clone(item)
		}
	}
	c.NPC = bytes.Clone(t.NPC)
	c.raw = bytes.Clone(t.raw)
	return c
}

// unchanged reports whether writing v over the source value would only
// change its JSON type. A missing key or null reads back as "".
func unchanged(src gjson.Result, v string) bool {
	switch src.Type {
	case gjson.Null:
		return v == ""
	case gjson.String:
		return src.Str == v
	case gjson.Number:
		return src.Raw == v
	default:
		return false
	}
}
