package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rubiojr/medialog/pkg/media"
)

//go:embed config.toml.sample
var configTemplate string

// Destination configures one default log destination.
type Destination struct {
	// Type is one of "syslog", "file", "lockedfile", "store".
	Type string `toml:"type"`
	// Path is the target file for the file kinds and the database file
	// for the store kind.
	Path string `toml:"path,omitempty"`
	// Table is the store table name; defaults to "logs".
	Table string `toml:"table,omitempty"`
	// Tag is the syslog program tag; defaults to "medialog".
	Tag string `toml:"tag,omitempty"`
}

type Config struct {
	Destinations []Destination `toml:"destinations"`
}

// GetDefaultConfig returns a configuration routing everything to the
// system log, mirroring what an unconfigured dispatcher does.
func GetDefaultConfig() *Config {
	return &Config{
		Destinations: []Destination{{Type: "syslog"}},
	}
}

// LoadConfig reads the TOML configuration at configPath. A missing file is
// not an error; it yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(config.Destinations) == 0 {
		config.Destinations = GetDefaultConfig().Destinations
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, with the
// placeholder database path replaced by the real default.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return fmt.Errorf("getting default database path: %w", err)
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/medialog/medialog.db", dbPath, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// BuildMedia constructs the configured destinations through the given
// factory. Setup errors (bad paths, uncreatable tables) propagate: they are
// configuration mistakes the operator must fix, not conditions to swallow.
func (c *Config) BuildMedia(factory *media.Factory) ([]media.Medium, error) {
	var out []media.Medium
	for i, dest := range c.Destinations {
		m, err := buildMedium(factory, dest)
		if err != nil {
			return nil, fmt.Errorf("destination %d (%s): %w", i, dest.Type, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func buildMedium(factory *media.Factory, dest Destination) (media.Medium, error) {
	switch dest.Type {
	case "syslog":
		return media.NewSyslog(dest.Tag), nil
	case "file":
		if dest.Path == "" {
			return nil, fmt.Errorf("file destination requires a path")
		}
		return factory.File(dest.Path)
	case "lockedfile":
		if dest.Path == "" {
			return nil, fmt.Errorf("lockedfile destination requires a path")
		}
		return factory.LockedFile(dest.Path)
	case "store":
		path := dest.Path
		if path == "" {
			var err error
			path, err = GetDefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("getting default database path: %w", err)
			}
		}
		return factory.Store(path, dest.Table)
	default:
		return nil, fmt.Errorf("unknown destination type %q", dest.Type)
	}
}

// GetDefaultStorageDir returns the default directory for databases,
// honoring XDG_DATA_HOME.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "medialog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultDBPath returns the default database path in the user's data
// directory.
func GetDefaultDBPath() (string, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(storageDir, "medialog.db"), nil
}

// GetConfigDir returns the configuration directory, honoring
// XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "medialog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
