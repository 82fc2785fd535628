package config

import (
	"os"
	"path/filepath"

	"github.com/revelaction/clincoref/logging"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "clincoref.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/clincoref"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"

	EnvDocPath = "CLINCOREF_DOC_PATH"
	EnvOut     = "CLINCOREF_OUT"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger logging.Logger

	// Home and WorkDir default to the user home and the current directory
	Home    string
	WorkDir string
	Getenv  func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{logger: logger, Getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/clincoref/config.yaml)
// 3. Project config (clincoref.yaml in current or parent directories)
// 4. explicit, when not empty
// 5. Environment variables CLINCOREF_DOC_PATH and CLINCOREF_OUT
func (l *Loader) Load(explicit string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if err := l.apply(config, userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", "path", userConfigPath)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if err := l.apply(config, projectConfigPath); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", "path", projectConfigPath)
	} else {
		l.logger.Debug("No project config found")
	}

	if explicit != "" {
		if err := l.apply(config, explicit); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", "path", explicit)
	}

	if l.Getenv != nil {
		if v := l.Getenv(EnvDocPath); v != "" {
			config.Storage.DocPath = v
		}
		if v := l.Getenv(EnvOut); v != "" {
			config.Storage.ChainPath = v
		}
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) apply(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return config.Apply(data)
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.Home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for clincoref.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.WorkDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
