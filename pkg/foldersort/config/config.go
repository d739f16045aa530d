package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// OrganizeConfig configures how files are classified and moved.
type OrganizeConfig struct {
	ByDate           bool     `mapstructure:"by_date"`
	DateSource       string   `mapstructure:"date_source"`
	ExcludeSymlinks  bool     `mapstructure:"exclude_symlinks"`
	ExcludedSuffixes []string `mapstructure:"excluded_suffixes"`
	Exclude          []string `mapstructure:"exclude"`
	NoExtensionDir   string   `mapstructure:"no_extension_dir"`
}

// CleanupConfig configures the empty-folder audit.
type CleanupConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	UseTrash bool `mapstructure:"use_trash"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath string         `mapstructure:"default_path"`
	Organize    OrganizeConfig `mapstructure:"organize"`
	Cleanup     CleanupConfig  `mapstructure:"cleanup"`
	Watch       WatchConfig    `mapstructure:"watch"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

// SetDefaults registers every default on v. The CLI shares it with Load so
// both see the same values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", "")

	v.SetDefault("organize.by_date", true)
	v.SetDefault("organize.date_source", DefaultDateSource)
	v.SetDefault("organize.exclude_symlinks", true)
	v.SetDefault("organize.excluded_suffixes", DefaultExcludedSuffixes)
	v.SetDefault("organize.exclude", []string{})
	v.SetDefault("organize.no_extension_dir", DefaultNoExtensionDir)

	v.SetDefault("cleanup.enabled", true)
	v.SetDefault("cleanup.use_trash", false)

	v.SetDefault("watch.debounce", DefaultWatchDebounce)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", DefaultLogMaxAge)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"organizer": "info",
		"audit":     "info",
		"watch":     "info",
		"tui":       "info",
	})
}

// ConfigureSources points v at the config search path and environment.
// An explicit file wins over the search path.
func ConfigureSources(v *viper.Viper, explicitFile string) {
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the config file (if any) and FOLDERSORT_
// environment variables on top of the defaults.
//
// Config file locations:
//   - $XDG_CONFIG_HOME/foldersort/config.yaml
//   - $HOME/.config/foldersort/config.yaml
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	ConfigureSources(v, path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals v into a Config and expands ~ in path settings.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.DefaultPath, err = ExpandPath(cfg.DefaultPath); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appDir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appDir), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+"."+configType), nil
}

// StateDir returns $XDG_STATE_HOME/foldersort/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appDir)
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "foldersort.log")
}

// WriteDefault writes a commented default config file if none exists and
// returns its path.
func WriteDefault() (string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

func defaultConfigYAML() string {
	return fmt.Sprintf(`# foldersort configuration

# Folder to organize when none is given on the command line.
# Leave empty to be asked every time.
default_path: ""

organize:
  # Add a YYYY-MM-DD level below each extension folder.
  # The --policy flag (simple, dated, enhanced) replaces by_date,
  # exclude_symlinks, excluded_suffixes and cleanup.enabled.
  by_date: true
  # Timestamp for the date bucket: created, modified or exif.
  date_source: %s
  exclude_symlinks: true
  # Names ending in these suffixes are never moved (case-insensitive).
  excluded_suffixes:
    - .lnk
  # Glob patterns matched against entry names, e.g. "*.part".
  exclude: []
  # Folder used for files without an extension.
  no_extension_dir: %s

cleanup:
  # Look for empty folders after organizing.
  enabled: true
  # Move empty folders to the system trash instead of removing them.
  use_trash: false

watch:
  debounce: %s

logging:
  # Log level: debug, info, warn, error
  level: %s
  # Empty means $XDG_STATE_HOME/foldersort/foldersort.log
  path: ""
  rotation:
    max_size: %s
    max_age: %d
    max_backups: %d
    daily: true
  components:
    organizer: info
    audit: info
    watch: info
    tui: info
`, DefaultDateSource, DefaultNoExtensionDir, DefaultWatchDebounce,
		DefaultLogLevel, DefaultLogMaxSize, DefaultLogMaxAge, DefaultLogMaxBackups)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
