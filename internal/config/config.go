// Package config provides YAML-based configuration for the LAN share server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Mode selects which frontend is served.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`
	Advanced AdvancedConfig `yaml:"advanced"`

	// Mode is not read from the file; it comes from APP_ENV.
	Mode string `yaml:"-"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port               int    `yaml:"port"`
	BindAddress        string `yaml:"bindAddress"`
	EnableCORS         bool   `yaml:"enableCORS"`
	AllowOrigins       string `yaml:"allowOrigins"`
	ReadTimeoutSeconds int    `yaml:"readTimeoutSeconds"`
	IdleTimeoutMinutes int    `yaml:"idleTimeoutMinutes"`
	BodyLimit          string `yaml:"bodyLimit"`
}

// StorageConfig contains file storage settings.
type StorageConfig struct {
	StoreDirectory string `yaml:"storeDirectory"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// SecurityConfig contains access-code and deletion settings.
type SecurityConfig struct {
	MinAccessCodeLength int  `yaml:"minAccessCodeLength"`
	AllowFileDeletion   bool `yaml:"allowFileDeletion"`
}

// AdvancedConfig contains tuning options.
type AdvancedConfig struct {
	LogLevel             string `yaml:"logLevel"`
	EnableRequestLogging bool   `yaml:"enableRequestLogging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:               3000,
			BindAddress:        "0.0.0.0",
			EnableCORS:         true,
			AllowOrigins:       "*",
			ReadTimeoutSeconds: 30,
			// Large transfers over slow WiFi; a connection may sit idle
			// between chunks for a long time.
			IdleTimeoutMinutes: 30,
			BodyLimit:          "1G",
		},
		Storage: StorageConfig{
			StoreDirectory: "./store",
			MaxUploadBytes: 1 << 30, // 1 GB
		},
		Security: SecurityConfig{
			MinAccessCodeLength: 3,
			AllowFileDeletion:   true,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
		Mode: ModeDevelopment,
	}
}

// LoadConfig loads configuration from a YAML file, creating a default file
// on first run.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.applyEnvironmentOverrides()
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# LAN share server configuration.\n# This file is auto-generated on first run.\n\n")
	if err := os.WriteFile(configPath, append(header, out...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config
// values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if storeDir := os.Getenv("STORE_DIR"); storeDir != "" {
		c.Storage.StoreDirectory = storeDir
	}

	c.Mode = ModeDevelopment
	if env := os.Getenv("APP_ENV"); env == ModeProduction {
		c.Mode = ModeProduction
	}
}

// resolvePaths converts relative paths to absolute based on the config file
// location.
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.StoreDirectory) {
		c.Storage.StoreDirectory = filepath.Join(configDir, c.Storage.StoreDirectory)
	}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// IsProduction reports whether a pre-built client bundle should be served.
func (c *AppConfig) IsProduction() bool {
	return c.Mode == ModeProduction
}

// EnsureDirectories creates the storage directories.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.StoreDirectory,
		filepath.Join(c.Storage.StoreDirectory, "public"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
