package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// FileName is the configuration file looked up in each search directory
const FileName = "nicswitch.yaml"

// Config defines the global configuration
type Config struct {
	entities.HostConfig `yaml:",inline"`

	RefreshInterval time.Duration        `yaml:"refresh_interval" default:"5s"`
	Store           entities.StoreConfig `yaml:"store"`
	Server          ServerConfig         `yaml:"server"`

	// Path is the file the configuration was read from, empty when only defaults apply
	Path string `yaml:"-"`
}

// ServerConfig configures the local HTTP API
type ServerConfig struct {
	Address string `yaml:"address" default:"127.0.0.1:8642"`
	Mode    string `yaml:"mode" default:"release"`
}

func validatePlatform(platform string) error {
	switch platform {
	case "netsh", "iproute", "snmp", "auto":
		return nil
	default:
		return fmt.Errorf("platform %s is invalid, must be 'netsh', 'iproute', 'snmp', or 'auto'", platform)
	}
}

func validateTransport(transport string) error {
	switch transport {
	case "local", "ssh", "telnet":
		return nil
	default:
		return fmt.Errorf("transport %s is invalid, must be 'local', 'ssh', or 'telnet'", transport)
	}
}

// SearchPaths returns the candidate configuration files in lookup order
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "nicswitch", FileName))
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("ProgramData"); dir != "" {
			paths = append(paths, filepath.Join(dir, "nicswitch", FileName))
		}
	} else {
		paths = append(paths, filepath.Join("/etc", "nicswitch", FileName))
	}
	return paths
}

// Load reads and validates the configuration. An empty path searches SearchPaths and falls
// back to defaults when no file exists; an explicit path must exist.
func Load(path string, sandbox bool) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if path == "" {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
		cfg.Path = path
	}

	cfg.Sandbox = sandbox
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes case and whitespace, then checks every field
func (c *Config) Validate() error {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform == "" {
		c.Platform = "auto"
	}
	if err := validatePlatform(c.Platform); err != nil {
		return err
	}

	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = "local"
	}
	if err := validateTransport(c.Transport); err != nil {
		return err
	}

	c.Target = strings.TrimSpace(c.Target)
	if c.IsRemote() && c.Target == "" {
		return fmt.Errorf("target is required for transport %s", c.Transport)
	}
	if c.Platform == "snmp" && c.Target == "" {
		return fmt.Errorf("target is required for platform snmp")
	}
	if c.IsRemote() && c.Username == "" {
		return fmt.Errorf("username is required for transport %s", c.Transport)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is invalid, must be between 1 and 65535", c.Port)
	}

	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay %s is invalid, must not be negative", c.SettleDelay)
	}
	if c.ActionTimeout < 0 {
		return fmt.Errorf("action_timeout %s is invalid, must not be negative", c.ActionTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval %s is invalid, must be positive", c.RefreshInterval)
	}

	if err := c.normalizeSNMP(); err != nil {
		return err
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "auto", "registry", "sqlite":
	default:
		return fmt.Errorf("store backend %s is invalid, must be 'auto', 'registry', or 'sqlite'", c.Store.Backend)
	}
	if c.Store.RegistryKey == "" {
		return fmt.Errorf("store registry_key is required")
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode %s is invalid, must be 'debug', 'release', or 'test'", c.Server.Mode)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	return nil
}

func (c *Config) normalizeSNMP() error {
	snmp := &c.SNMP
	snmp.Version = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(snmp.Version), "v"))
	if snmp.Version != "1" && snmp.Version != "2c" {
		return fmt.Errorf("snmp version %s is invalid, must be '1' or '2c'", snmp.Version)
	}
	if snmp.Port < 1 || snmp.Port > 65535 {
		return fmt.Errorf("snmp port %d is invalid, must be between 1 and 65535", snmp.Port)
	}
	if snmp.NameOID != "ifDescr" && snmp.NameOID != "ifName" {
		return fmt.Errorf("snmp name_oid %s is invalid, must be 'ifDescr' or 'ifName'", snmp.NameOID)
	}
	if snmp.Timeout <= 0 {
		return fmt.Errorf("snmp timeout %s is invalid, must be positive", snmp.Timeout)
	}
	return nil
}
