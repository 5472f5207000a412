package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	GatewayModeHTTP = "http"
	GatewayModeBolt = "bolt"
)

type GatewayConfig struct {
	Mode              string  `toml:"mode"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type NavigatorConfig struct {
	DisplayCeiling int `toml:"display_ceiling"`
	IndentUnit     int `toml:"indent_unit"`
	MaxExpandDepth int `toml:"max_expand_depth"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Gateway   GatewayConfig   `toml:"gateway"`
	Neo4j     Neo4jConfig     `toml:"neo4j"`
	Navigator NavigatorConfig `toml:"navigator"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Mode:              GatewayModeHTTP,
			BaseURL:           "http://localhost:5000",
			TimeoutSeconds:    30,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Neo4j: Neo4jConfig{
			URI: "bolt://localhost:7687",
		},
		Navigator: NavigatorConfig{
			DisplayCeiling: 100,
			IndentUnit:     50,
			MaxExpandDepth: 5,
		},
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads a TOML file on top of the defaults. Keys absent from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables that are set.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &c.Server.Port)
	setString("GATEWAY_MODE", &c.Gateway.Mode)
	setString("GATEWAY_BASE_URL", &c.Gateway.BaseURL)
	setString("NEO4J_URI", &c.Neo4j.URI)
	setString("NEO4J_USER", &c.Neo4j.User)
	setString("NEO4J_PASSWORD", &c.Neo4j.Password)
	setString("NEO4J_DATABASE", &c.Neo4j.Database)
	setString("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("DISPLAY_CEILING"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DISPLAY_CEILING: %w", err)
		}
		c.Navigator.DisplayCeiling = n
	}
	return c.Validate()
}

// Validate checks the settings and normalizes the gateway mode to lower case.
func (c *Config) Validate() error {
	c.Gateway.Mode = strings.ToLower(strings.TrimSpace(c.Gateway.Mode))
	switch c.Gateway.Mode {
	case GatewayModeHTTP:
		if c.Gateway.BaseURL == "" {
			return errors.New("gateway.base_url is required in http mode")
		}
	case GatewayModeBolt:
		if c.Neo4j.URI == "" {
			return errors.New("neo4j.uri is required in bolt mode")
		}
	default:
		return fmt.Errorf("unsupported gateway mode: %s", c.Gateway.Mode)
	}
	if c.Navigator.MaxExpandDepth <= 0 {
		return fmt.Errorf("navigator.max_expand_depth must be positive, got %d", c.Navigator.MaxExpandDepth)
	}
	if c.Navigator.DisplayCeiling <= 0 {
		return fmt.Errorf("navigator.display_ceiling must be positive, got %d", c.Navigator.DisplayCeiling)
	}
	if c.Gateway.TimeoutSeconds < 0 {
		return fmt.Errorf("gateway.timeout_seconds must not be negative, got %d", c.Gateway.TimeoutSeconds)
	}
	return nil
}
