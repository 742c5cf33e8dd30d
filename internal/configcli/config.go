// Package configcli handles loading the boincctl configuration: the known
// daemon hosts, their credentials and the logging setup.
package configcli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mfulz/boincgeist/client"
	"github.com/mfulz/boincgeist/internal/configloader"
	"github.com/mfulz/boincgeist/internal/logging"
	"github.com/mfulz/boincgeist/protocol"
)

const (
	// FileName is the config file looked up by configloader.ResolveConfigPath.
	FileName = "boincctl.yaml"
	// EnvPrefix prefixes environment overrides, e.g. BOINCGEIST_DEFAULT.
	EnvPrefix = "BOINCGEIST"
	// LocalHost is the name under which the implicit localhost target is known.
	LocalHost = "local"
)

// Host is one daemon connection target.
type Host struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	// Password is the GUI RPC secret. PasswordFile, usually the daemon's
	// gui_rpc_auth.cfg, is read when Password is empty.
	Password     string        `mapstructure:"password"`
	PasswordFile string        `mapstructure:"password_file"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// Terminator is "nul" (default) or "etx" for daemons on the legacy byte.
	Terminator string `mapstructure:"terminator"`
}

// Redis configures the snapshot publisher of `boincctl watch`. An empty
// Address disables publishing.
type Redis struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Watch configures the metrics exporter.
type Watch struct {
	Listen   string        `mapstructure:"listen"`
	Interval time.Duration `mapstructure:"interval"`
	Redis    Redis         `mapstructure:"redis"`
}

// Config holds the entire boincctl configuration.
type Config struct {
	Hosts   map[string]Host `mapstructure:"hosts"`
	Default string          `mapstructure:"default"`
	Log     logging.Config  `mapstructure:"log"`
	Watch   Watch           `mapstructure:"watch"`
}

// Addr returns host:port with daemon defaults applied.
func (h Host) Addr() string {
	return client.Address(h.Address, h.Port)
}

// Secret returns the configured password, reading PasswordFile if needed.
// An empty result means no authentication is configured.
func (h Host) Secret() (string, error) {
	if h.Password != "" || h.PasswordFile == "" {
		return h.Password, nil
	}
	f, err := os.Open(h.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	return "", nil
}

// TerminatorByte maps the Terminator setting to the wire byte.
func (h Host) TerminatorByte() (byte, error) {
	switch strings.ToLower(strings.TrimSpace(h.Terminator)) {
	case "", "nul", "0", "0x00":
		return protocol.Terminator, nil
	case "etx", "legacy", "3", "0x03":
		return protocol.LegacyTerminator, nil
	default:
		return 0, fmt.Errorf("unknown terminator %q", h.Terminator)
	}
}

// Names returns the configured host names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Hosts))
	for name := range c.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named host, or the default one for an empty name.
// Without any configured hosts the local daemon is assumed.
func (c *Config) Resolve(name string) (Host, error) {
	if name == "" {
		name = c.Default
	}
	if h, ok := c.Hosts[name]; ok {
		return h, nil
	}
	if name == "" || name == LocalHost {
		return Host{Address: protocol.DefaultHost, Port: protocol.DefaultPort}, nil
	}
	return Host{}, fmt.Errorf("host '%s' not found", name)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := logging.DefaultConfig()
	v.SetDefault("default", LocalHost)
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.to_stdout", def.ToStdout)
	v.SetDefault("log.to_stderr", def.ToStderr)
	v.SetDefault("log.to_file", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.compress", false)
	v.SetDefault("watch.listen", ":9310")
	v.SetDefault("watch.interval", "30s")
	v.SetDefault("watch.redis.address", "")
	v.SetDefault("watch.redis.db", 0)
	v.SetDefault("watch.redis.prefix", "boincgeist:")
	v.SetDefault("watch.redis.ttl", "5m")
	return v
}

// Load reads the config at path. An empty path is resolved with
// configloader.ResolveConfigPath; a missing file is not an error and yields
// the defaults.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		resolved, err := configloader.ResolveConfigPath(FileName)
		switch {
		case errors.Is(err, configloader.ErrNoConfig):
		case err != nil:
			return nil, err
		default:
			path = resolved
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads the configuration and registers it with configloader.
func LoadConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	configloader.SetConfig(cfg)
	return cfg, nil
}
