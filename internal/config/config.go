// Package config loads gowakeonlan settings.
//
// Sources, later ones overriding earlier ones:
//  1. Default values
//  2. Configuration file (--config, or gowakeonlan.yaml in the working
//     directory or $XDG_CONFIG_HOME/gowakeonlan)
//  3. Environment variables with the GWOL_ prefix, e.g. GWOL_WAKE_DEFAULT_PORT=7
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "gowakeonlan"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Wake methods.
const (
	MethodUDP      = "udp"
	MethodEthernet = "ethernet"
)

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Wake    WakeConfig    `mapstructure:"wake"`
	ARP     ARPConfig     `mapstructure:"arp"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig selects where the host list is persisted.
type StorageConfig struct {
	// Backend is "file" (YAML or JSON by extension) or "sqlite"
	Backend string `mapstructure:"backend"`

	// Path of the hosts file or database
	Path string `mapstructure:"path"`
}

// WakeConfig holds the defaults for new hosts and how packets are sent.
type WakeConfig struct {
	DefaultPort        int    `mapstructure:"default_port"`
	DefaultDestination string `mapstructure:"default_destination"`

	// Method is "udp" or "ethernet" (raw 0x0842 frames, needs Interface)
	Method    string `mapstructure:"method"`
	Interface string `mapstructure:"interface"`

	// Concurrency bounds how many hosts of a batch are woken at once
	Concurrency int `mapstructure:"concurrency"`
}

// ARPConfig controls where ARP entries are imported from.
type ARPConfig struct {
	CachePath string `mapstructure:"cache_path"`

	// Scan replaces the cache read with an active sweep of Interface
	Scan      bool          `mapstructure:"scan"`
	Interface string        `mapstructure:"interface"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
	IdleWait  time.Duration `mapstructure:"idle_wait"`
	MaxHosts  int           `mapstructure:"max_hosts"`
}

// LoggingConfig holds the log level and the rotating file used while the TUI runs.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// Load reads the configuration. An empty cfgFile searches the standard
// locations; a missing file is not an error in either case.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GWOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", filepath.Join(configDir(), "hosts.yaml"))

	v.SetDefault("wake.default_port", 9)
	v.SetDefault("wake.default_destination", "255.255.255.255")
	v.SetDefault("wake.method", MethodUDP)
	v.SetDefault("wake.interface", "")
	v.SetDefault("wake.concurrency", 4)

	v.SetDefault("arp.cache_path", "/proc/net/arp")
	v.SetDefault("arp.scan", false)
	v.SetDefault("arp.interface", "")
	v.SetDefault("arp.rate_limit", "50us")
	v.SetDefault("arp.idle_wait", "500ms")
	v.SetDefault("arp.max_hosts", 4096)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.file", filepath.Join(stateDir(), "gowakeonlan.log"))
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
}

// Validate checks values that would otherwise fail much later.
func Validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path == "" {
		return errors.New("storage path is empty")
	}
	if cfg.Wake.DefaultPort < 1 || cfg.Wake.DefaultPort > 65535 {
		return fmt.Errorf("invalid default port: %d", cfg.Wake.DefaultPort)
	}
	if cfg.Wake.DefaultDestination == "" {
		return errors.New("default destination is empty")
	}
	switch cfg.Wake.Method {
	case MethodUDP:
	case MethodEthernet:
		if cfg.Wake.Interface == "" {
			return errors.New("wake method ethernet needs wake.interface")
		}
	default:
		return fmt.Errorf("unknown wake method: %q", cfg.Wake.Method)
	}
	if cfg.Wake.Concurrency < 1 {
		return fmt.Errorf("invalid wake concurrency: %d", cfg.Wake.Concurrency)
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appName)
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", appName)
}
