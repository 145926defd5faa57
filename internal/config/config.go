// Package config provides configuration management for servicedeck
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Provider defines the interface for configuration providers.
type Provider interface {
	// GetConfig returns the current application configuration.
	GetConfig() *Settings
	// SetConfig sets the application configuration.
	SetConfig(c *Settings)
	// InitConfig initializes the application configuration.
	InitConfig() (*Settings, error)
	// SetConfigFilePath sets the configuration file path.
	SetConfigFilePath(p string)
}

// defaultConfigProvider implements the Provider interface.
type defaultConfigProvider struct {
	cfg *Settings
}

// NewDefaultConfigProvider creates a new default config provider.
func NewDefaultConfigProvider() Provider {
	return &defaultConfigProvider{}
}

// Backends for talking to systemd.
const (
	BackendSystemctl = "systemctl"
	BackendDBus      = "dbus"
)

// Default configuration values for servicedeck.
const (
	DefaultBackend         = BackendSystemctl
	DefaultUnitType        = "service"
	DefaultIncludeInactive = true
	DefaultSystemctlPath   = "systemctl"
	DefaultElevateCommand  = "pkexec"
	DefaultHistoryEnabled  = true
	DefaultHistoryDBPath   = "/var/lib/servicedeck/history.db"
	DefaultUserHistoryPath = "$HOME/.local/share/servicedeck/history.db"
	DefaultUserMode        = false
	DefaultVerbose         = false
	DefaultSort            = "name"
	DefaultLogFile         = ""
)

// Settings represents the configuration for servicedeck.
type Settings struct {
	Backend         string `yaml:"backend"`
	UnitType        string `yaml:"unitType"`
	IncludeInactive bool   `yaml:"includeInactive"`
	SystemctlPath   string `yaml:"systemctlPath"`
	ElevateCommand  string `yaml:"elevateCommand"`
	HistoryEnabled  bool   `yaml:"historyEnabled"`
	HistoryDBPath   string `yaml:"historyDBPath"`
	UserMode        bool   `yaml:"userMode"`
	Verbose         bool   `yaml:"verbose"`
	DefaultSort     string `yaml:"defaultSort"`
	LogFile         string `yaml:"logFile"`
}

// Defaults returns a Settings populated with the default values.
func Defaults() *Settings {
	return &Settings{
		Backend:         DefaultBackend,
		UnitType:        DefaultUnitType,
		IncludeInactive: DefaultIncludeInactive,
		SystemctlPath:   DefaultSystemctlPath,
		ElevateCommand:  DefaultElevateCommand,
		HistoryEnabled:  DefaultHistoryEnabled,
		HistoryDBPath:   DefaultHistoryDBPath,
		UserMode:        DefaultUserMode,
		Verbose:         DefaultVerbose,
		DefaultSort:     DefaultSort,
		LogFile:         DefaultLogFile,
	}
}

// Validate checks values that cannot be defaulted silently.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendSystemctl, BackendDBus:
	default:
		return fmt.Errorf("invalid backend %q, allowed backends are: %s, %s", s.Backend, BackendSystemctl, BackendDBus)
	}
	if strings.TrimSpace(s.UnitType) == "" {
		return fmt.Errorf("unitType must not be empty")
	}
	return nil
}

func (p *defaultConfigProvider) SetConfig(c *Settings) {
	p.cfg = c
}

func (p *defaultConfigProvider) GetConfig() *Settings {
	if p.cfg == nil {
		p.cfg = Defaults()
	}
	return p.cfg
}

func (p *defaultConfigProvider) SetConfigFilePath(path string) {
	viper.SetConfigFile(path)
}

func (p *defaultConfigProvider) InitConfig() (*Settings, error) {
	cfg, err := initConfigInternal()
	if err != nil {
		return nil, err
	}
	p.cfg = cfg
	return cfg, nil
}

func initConfigInternal() (*Settings, error) {
	cfg := Defaults()

	viper.SetDefault("backend", DefaultBackend)
	viper.SetDefault("unitType", DefaultUnitType)
	viper.SetDefault("includeInactive", DefaultIncludeInactive)
	viper.SetDefault("systemctlPath", DefaultSystemctlPath)
	viper.SetDefault("elevateCommand", DefaultElevateCommand)
	viper.SetDefault("historyEnabled", DefaultHistoryEnabled)
	viper.SetDefault("historyDBPath", DefaultHistoryDBPath)
	viper.SetDefault("userMode", DefaultUserMode)
	viper.SetDefault("verbose", DefaultVerbose)
	viper.SetDefault("defaultSort", DefaultSort)
	viper.SetDefault("logFile", DefaultLogFile)

	viper.SetEnvPrefix("SERVICEDECK")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(os.ExpandEnv("$HOME/.config/servicedeck"))
	viper.AddConfigPath("/etc/servicedeck")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
