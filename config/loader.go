package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "vocabtools.toml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/vocabtools"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.toml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger     *slog.Logger
	userPath   string
	projectDir string
}

// NewLoader creates a loader reading the user config from the home
// directory and the project config from the working directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	if home, err := os.UserHomeDir(); err == nil {
		l.userPath = filepath.Join(home, UserConfigDir, UserConfigFile)
	}
	if cwd, err := os.Getwd(); err == nil {
		l.projectDir = cwd
	}
	return l
}

// WithUserPath replaces the user config path; empty disables it
func (l *Loader) WithUserPath(path string) *Loader {
	l.userPath = path
	return l
}

// WithProjectDir replaces the directory searched for the project config;
// empty disables it.
func (l *Loader) WithProjectDir(dir string) *Loader {
	l.projectDir = dir
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/vocabtools/config.toml)
// 3. Project config (vocabtools.toml in the working directory)
// 4. The explicit file, which must exist when given
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	if l.userPath != "" {
		l.mergeOptional(config, "user", l.userPath)
	}
	if l.projectDir != "" {
		l.mergeOptional(config, "project", filepath.Join(l.projectDir, ProjectConfigFile))
	}

	if explicit != "" {
		explicitConfig, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicit))
		config.Merge(explicitConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) mergeOptional(config *Config, layer, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.logger.Debug("No config found", slog.String("layer", layer), slog.String("path", path))
		return
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		l.logger.Warn("Failed to load config",
			slog.String("layer", layer),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	l.logger.Debug("Loaded config", slog.String("layer", layer), slog.String("path", path))
	config.Merge(loaded)
}
