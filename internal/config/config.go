package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig holds local database configuration
type StorageConfig struct {
	Path        string        `mapstructure:"path"`         // Empty = memory only
	OpenTimeout time.Duration `mapstructure:"open_timeout"` // Wait for the db file lock
}

// UIConfig holds UI configuration
type UIConfig struct {
	GridColumns int `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:        defaultDBPath(),
			OpenTimeout: time.Second,
		},
		UI: UIConfig{
			GridColumns: 3,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "kinofav")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "kinofav")
	}
}

func defaultDBPath() string {
	return filepath.Join(defaultDataPath(), "kinofav.db")
}

func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), "kinofav.log")
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "kinofav")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kinofav")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return load(viper.New(), defaultConfigPath(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides (KINOFAV_STORAGE_PATH, ...)
	v.SetEnvPrefix("KINOFAV")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.UI.GridColumns < 1 {
		cfg.UI.GridColumns = 1
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override it
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.open_timeout", cfg.Storage.OpenTimeout)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes cfg to the default config file and returns its path
func SaveConfig(cfg *Config) (string, error) {
	return save(viper.New(), cfg, defaultConfigPath())
}

func save(v *viper.Viper, cfg *Config, dir string) (string, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.open_timeout", cfg.Storage.OpenTimeout.String())

	v.Set("ui.grid_columns", cfg.UI.GridColumns)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}
