package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/leaguetasks/pkg/model"
)

const sample = `[
	{
		"id": "T1",
		"name": "Cook a Meal",
		"description": "Cook any food on a range.",
		"clientSortId": "10",
		"skills": [{"skill": "Cooking", "level": "1"}],
		"other": "",
		"tier": "Easy",
		"area": "Misthalin",
		"worldPosition": {"x": 3208, "y": 3213, "z": 0},
		"requiredItems": [],
		"NPC": null,
		"points": 10
	},
	{
		"id": "T2",
		"name": "Burn Logs",
		"description": "Burn some logs.",
		"clientSortId": 11,
		"skills": [],
		"tier": "Easy",
		"area": "General",
		"worldPosition": {"x": 0, "y": 0, "z": 0},
		"requiredItems": [{"id": 590, "name": "Tinderbox"}],
		"NPC": {"id": 1}
	}
]`

func TestParseTasks(t *testing.T) {
	tasks, err := ParseTasks(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "T1", tasks[0].ID)
	assert.Equal(t, "Cook a Meal", tasks[0].Name)
	assert.Equal(t, model.Text("10"), tasks[0].SortID)
	assert.Equal(t, model.Text("11"), tasks[1].SortID)
	assert.Len(t, tasks[1].RequiredItems, 1)
	assert.JSONEq(t, `{"id": 1}`, string(tasks[1].NPC))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	tests := map[string]string{
		"not json":    `[{"id": `,
		"object":      `{}`,
		"bad element": `[1, 2]`,
		"bad field":   `[{"id": "T1", "name": "x", "skills": "Cooking"}]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tasks, err := ParseTasks(strings.NewReader(sample))
	require.NoError(t, err)
	tasks[0].SortID = "1"

	path := filepath.Join(t.TempDir(), "out", "updated.json")
	require.NoError(t, Save(path, tasks))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n]\n"))
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"T1\"")
	assert.Contains(t, string(data), `"points": 10`)

	again, err := Load(path)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, model.Text("1"), again[0].SortID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]byte(sample)))

	bad := `[
		{"id": "T1", "name": "ok"},
		{"id": "T2", "skills": [{"level": "1"}]}
	]`
	err := Validate([]byte(bad))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	var paths []string
	for _, e := range verrs {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "[1]")
	assert.Contains(t, paths, "[1].skills[0]")
}

func TestValidateRejectsObject(t *testing.T) {
	err := Validate([]byte(`{"id": "T1"}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "[3].skills[0].skill", pointerToPath("/3/skills/0/skill"))
	assert.Equal(t, "[0].a/b", pointerToPath("#/0/a~1b"))
}
