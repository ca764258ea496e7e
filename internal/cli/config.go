package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/server"
)

// Config is the contents of the config file. Zero fields keep their
// defaults; command-line flags override both.
//
//	[store]
//	dsn = "sqlite:/var/lib/categorycloud/wiki.db"
//	redis_prefix = "categorycloud:"
//
//	[cloud]
//	order = "count"
//	min_size = 80
//	max_size = 125
//	class = "category-cloud"
//
//	[server]
//	addr = ":8080"
//	base_url = "/wiki/"
//	timeout = "30s"
//	max_body_bytes = 1048576
//
//	[messages]
//	dir = "/etc/categorycloud/messages"
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Cloud    CloudConfig    `toml:"cloud"`
	Server   ServerConfig   `toml:"server"`
	Messages MessagesConfig `toml:"messages"`
}

// StoreConfig selects the membership backend.
type StoreConfig struct {
	DSN         string `toml:"dsn"`
	RedisPrefix string `toml:"redis_prefix"`
}

// CloudConfig holds default cloud options.
type CloudConfig struct {
	Order   string  `toml:"order"`
	MinSize float64 `toml:"min_size"`
	MaxSize float64 `toml:"max_size"`
	Class   string  `toml:"class"`
	Style   string  `toml:"style"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// MessagesConfig points at a directory of message catalogs.
type MessagesConfig struct {
	Dir string `toml:"dir"`
}

// loadConfig reads the config file at path. An empty path selects the
// default location, where a missing file is not an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// configDir returns the config directory using XDG standard (~/.config/categorycloud/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cloudOptions returns the default options with the config applied.
func (c *Config) cloudOptions() cloud.Options {
	opts := cloud.DefaultOptions()
	if c.Cloud.Order != "" {
		_ = opts.Set("order", c.Cloud.Order)
	}
	if c.Cloud.MinSize != 0 {
		opts.MinSize = c.Cloud.MinSize
	}
	if c.Cloud.MaxSize != 0 {
		opts.MaxSize = c.Cloud.MaxSize
	}
	if c.Cloud.Class != "" {
		opts.Class = c.Cloud.Class
	}
	opts.Style = c.Cloud.Style
	return opts
}

// serverConfig converts the [server] section.
func (c *Config) serverConfig() (server.Config, error) {
	cfg := server.Config{
		Addr:         c.Server.Addr,
		BaseURL:      c.Server.BaseURL,
		MaxBodyBytes: c.Server.MaxBodyBytes,
	}
	if c.Server.Timeout != "" {
		d, err := time.ParseDuration(c.Server.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("server.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
