package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfiguration is the YAML form of the logger configuration.
type FileConfiguration struct {
	DefaultLevel    string            `yaml:"defaultLevel"`
	PackageLevels   map[string]string `yaml:"packageLevels"`
	OutputPath      string            `yaml:"outputPath"`
	ConsoleFormat   bool              `yaml:"consoleFormat"`
	ShowCaller      bool              `yaml:"showCaller"`
	TimeLocation    string            `yaml:"timeLocation"`
	ShowGoroutineID bool              `yaml:"showGoroutineID"`
}

// LoadGlobalConfigFromFile reads YAML logger configuration. When outputPath is
// set the log file is opened for appending, otherwise logs go to stdout.
func LoadGlobalConfigFromFile(fileName string) (GlobalConfig, error) {
	data, err := os.ReadFile(filepath.Clean(fileName))
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("failed to read logger config file: %w", err)
	}
	fc := &FileConfiguration{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return GlobalConfig{}, fmt.Errorf("failed to unmarshal logger config: %w", err)
	}
	return fc.GlobalConfig()
}

func (fc *FileConfiguration) GlobalConfig() (GlobalConfig, error) {
	gc := GlobalConfig{
		DefaultLevel:    LevelFromString(fc.DefaultLevel),
		PackageLevels:   make(map[string]LogLevel, len(fc.PackageLevels)),
		Writer:          os.Stdout,
		ConsoleFormat:   fc.ConsoleFormat,
		ShowCaller:      fc.ShowCaller,
		TimeLocation:    fc.TimeLocation,
		ShowGoroutineID: fc.ShowGoroutineID,
	}
	if fc.OutputPath != "" {
		file, err := os.OpenFile(filepath.Clean(fc.OutputPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // -rw-------
		if err != nil {
			return GlobalConfig{}, fmt.Errorf("failed to open log file: %w", err)
		}
		gc.Writer = file
	}
	for k, v := range fc.PackageLevels {
		gc.PackageLevels[k] = LevelFromString(v)
	}
	return gc, nil
}
