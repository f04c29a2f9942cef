package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models config.yml. Every field has a working default, so running
// without a config file is fine; the token always comes from GITHUB_TOKEN.
type Config struct {
	GitHub struct {
		APIBaseURL string `yaml:"api_base_url"`
	} `yaml:"github"`
	Contributions struct {
		APIBaseURL string `yaml:"api_base_url"`
	} `yaml:"contributions"`
	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Web struct {
		Addr string `yaml:"addr"`
	} `yaml:"web"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.HTTP.TimeoutSeconds = 30
	c.Web.Addr = ":8080"
	return &c
}

// Load parses the YAML configuration file at path, filling unset fields
// with defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = 30
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	slog.Info("config.loaded", "path", path)
	return c, nil
}

// Timeout returns the configured HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
