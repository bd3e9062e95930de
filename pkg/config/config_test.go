package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "leagues.csv", cfg.RowsFile)
	assert.Equal(t, "updated_league_tasks.json", cfg.OutputFile)
	assert.Equal(t, "json/min/league5_tasks.min.json", cfg.TasksFile)
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
rows_file = "exports/league.csv"
spreadsheet_id = "abc"
validate = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "exports/league.csv", cfg.RowsFile)
	assert.Equal(t, "abc", cfg.SpreadsheetID)
	assert.True(t, cfg.Validate)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Equal(t, DefaultSheetRange, cfg.SheetRange)
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`calendar = "Tasks"`), 0600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "calendar")
}

func TestLoadFileBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`rows_file = `), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	want := Default()
	want.SpreadsheetID = "sheet"
	want.LogJSON = true

	require.NoError(t, SaveFile(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
