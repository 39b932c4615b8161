// Package config loads triquad settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/triquad/triquad/catalog"
)

type Config struct {
	Server  Server
	Catalog Catalog
	Log     Log
}

type Server struct {
	Address string
	Port    int
	// StaticDir serves the front-end from disk. Empty uses the embedded copy.
	StaticDir       string
	ShutdownTimeout time.Duration
	// MaxBodyBytes limits request bodies of the POST endpoints.
	MaxBodyBytes int64
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return s.Address + ":" + strconv.Itoa(s.Port)
}

type Catalog struct {
	RemoteURL string
	// LocalPath is the fallback document. Empty uses the embedded table.
	LocalPath string
	Timeout   time.Duration
}

type Log struct {
	Format string
	Debug  bool
}

func Default() Config {
	return Config{
		Server: Server{
			Address:         "0.0.0.0",
			Port:            5001,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Catalog: Catalog{
			RemoteURL: catalog.DefaultURL,
			Timeout:   10 * time.Second,
		},
		Log: Log{Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. The PORT environment variable overrides server.port.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		var y yamlConfig
		if err := yaml.Unmarshal(b, &y); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		y.apply(&cfg)
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is empty"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout must be positive"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// yamlConfig mirrors Config with optional fields, so that only keys present
// in the file replace defaults.
type yamlConfig struct {
	Server struct {
		Address         *string        `yaml:"address"`
		Port            *int           `yaml:"port"`
		StaticDir       *string        `yaml:"static_dir"`
		ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
		MaxBodyBytes    *int64         `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Catalog struct {
		RemoteURL *string        `yaml:"remote_url"`
		LocalPath *string        `yaml:"local_path"`
		Timeout   *time.Duration `yaml:"timeout"`
	} `yaml:"catalog"`

	Log struct {
		Format *string `yaml:"format"`
		Debug  *bool   `yaml:"debug"`
	} `yaml:"log"`
}

func (y yamlConfig) apply(cfg *Config) {
	set(&cfg.Server.Address, y.Server.Address)
	set(&cfg.Server.Port, y.Server.Port)
	set(&cfg.Server.StaticDir, y.Server.StaticDir)
	set(&cfg.Server.ShutdownTimeout, y.Server.ShutdownTimeout)
	set(&cfg.Server.MaxBodyBytes, y.Server.MaxBodyBytes)

	set(&cfg.Catalog.RemoteURL, y.Catalog.RemoteURL)
	set(&cfg.Catalog.LocalPath, y.Catalog.LocalPath)
	set(&cfg.Catalog.Timeout, y.Catalog.Timeout)

	set(&cfg.Log.Format, y.Log.Format)
	set(&cfg.Log.Debug, y.Log.Debug)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
