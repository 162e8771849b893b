package mcphost

import (
	"encoding/json"
	"os"
	"sort"
)

// ServerConfig describes how to launch one stdio MCP server: the executable,
// its arguments, and extra environment variables merged onto the parent
// process environment.
type ServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Config is the on-disk configuration document consumed by a Host. The shape
// matches the conventional Claude {"mcpServers": {...}} layout, keyed by
// unique server name.
type Config struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// ParseConfig decodes a configuration document from raw JSON bytes. A decode
// failure is reported as a *ConfigError.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = map[string]ServerConfig{}
	}
	return &cfg, nil
}

// ReadConfig loads and parses the configuration file at path. Both a missing
// file and malformed JSON surface as a *ConfigError.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		if cerr, ok := err.(*ConfigError); ok {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Names returns the configured server names in sorted order. Sorted order is
// the canonical iteration order everywhere in this package, so bulk connects
// and merged discovery output are deterministic.
func (c *Config) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the launch spec for name.
func (c *Config) Lookup(name string) (ServerConfig, bool) {
	if c == nil {
		return ServerConfig{}, false
	}
	sc, ok := c.MCPServers[name]
	return sc, ok
}
