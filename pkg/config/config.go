package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	xdgAppName = "leaguetasks"
	configFile = "config.toml"
)

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultTasksFile  = "json/min/league5_tasks.min.json"
	DefaultRowsFile   = "leagues.csv"
	DefaultOutputFile = "updated_league_tasks.json"
	DefaultSheetRange = "Sheet1!A:D"
	DefaultLogLevel   = "info"
)

// Config holds the file locations and options of a run.
type Config struct {
	TasksFile  string `toml:"tasks_file"`
	RowsFile   string `toml:"rows_file"`
	OutputFile string `toml:"output_file"`

	// SpreadsheetID selects Google Sheets as the row source instead of RowsFile.
	SpreadsheetID string `toml:"spreadsheet_id"`
	SheetRange    string `toml:"sheet_range"`

	Validate bool   `toml:"validate"`
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.TasksFile == "" {
		c.TasksFile = DefaultTasksFile
	}
	if c.RowsFile == "" {
		c.RowsFile = DefaultRowsFile
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.SheetRange == "" {
		c.SheetRange = DefaultSheetRange
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// GetConfigPath returns ~/.config/leaguetasks/config.toml.
func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the user config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating the directory if needed.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
