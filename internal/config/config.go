package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants for the tool server
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultMaxPages      = 10
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultLogLevel      = "info"
	DefaultAppURL        = "http://localhost:3001"
	DefaultScreenshotDir = "/tmp"
	DefaultNavTimeout    = 30 * time.Second
	DefaultStepTimeout   = 120 * time.Second

	// Directory permissions for created screenshot directories
	DefaultDirPerm = 0o750
)

// Config holds all configuration shared by the clinextract tools.
type Config struct {
	// Tool server configuration
	Mode       string // "stdio" or "server"
	ServerName string
	Version    string
	LogLevel   string

	// Extraction configuration
	MaxPages    int   // Default page limit for search-result extraction
	MaxFileSize int64 // Maximum PDF file size in bytes

	// UI check configuration
	AppURL        string        // Clinical Data Extractor instance under test
	PDFPath       string        // Local PDF uploaded during UI checks
	ScreenshotDir string        // Directory for screenshot artifacts
	Headless      bool          // Run the browser headless
	NavTimeout    time.Duration // Navigation and settle timeout
	StepTimeout   time.Duration // Upper bound for conditional waits
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeStdio,
		ServerName:    "clinextract",
		Version:       "1.0.0",
		LogLevel:      DefaultLogLevel,
		MaxPages:      DefaultMaxPages,
		MaxFileSize:   DefaultMaxFileSize,
		AppURL:        DefaultAppURL,
		ScreenshotDir: DefaultScreenshotDir,
		Headless:      true,
		NavTimeout:    DefaultNavTimeout,
		StepTimeout:   DefaultStepTimeout,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.ScreenshotDir != "" {
		if expandedPath, err := filepath.Abs(cfg.ScreenshotDir); err == nil {
			cfg.ScreenshotDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CLINEXTRACT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxpages", cfg.MaxPages)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("appurl", cfg.AppURL)
	viper.SetDefault("pdf", cfg.PDFPath)
	viper.SetDefault("screenshotdir", cfg.ScreenshotDir)
	viper.SetDefault("headless", cfg.Headless)
	viper.SetDefault("navtimeout", cfg.NavTimeout)
	viper.SetDefault("steptimeout", cfg.StepTimeout)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Tool server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("maxpages", cfg.MaxPages, "Default page limit for search-result extraction")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("appurl", cfg.AppURL, "URL of the Clinical Data Extractor instance under test")
	pflag.String("pdf", cfg.PDFPath, "PDF file uploaded during UI checks")
	pflag.String("screenshotdir", cfg.ScreenshotDir, "Directory for screenshot artifacts")
	pflag.Bool("headless", cfg.Headless, "Run the browser headless")
	pflag.Duration("navtimeout", cfg.NavTimeout, "Navigation and settle timeout")
	pflag.Duration("steptimeout", cfg.StepTimeout, "Upper bound for conditional waits")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxpages", pflag.Lookup("maxpages"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("appurl", pflag.Lookup("appurl"))
	_ = viper.BindPFlag("pdf", pflag.Lookup("pdf"))
	_ = viper.BindPFlag("screenshotdir", pflag.Lookup("screenshotdir"))
	_ = viper.BindPFlag("headless", pflag.Lookup("headless"))
	_ = viper.BindPFlag("navtimeout", pflag.Lookup("navtimeout"))
	_ = viper.BindPFlag("steptimeout", pflag.Lookup("steptimeout"))
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxPages = viper.GetInt("maxpages")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.AppURL = viper.GetString("appurl")
	cfg.PDFPath = viper.GetString("pdf")
	cfg.ScreenshotDir = viper.GetString("screenshotdir")
	cfg.Headless = viper.GetBool("headless")
	cfg.NavTimeout = viper.GetDuration("navtimeout")
	cfg.StepTimeout = viper.GetDuration("steptimeout")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.MaxPages <= 0 {
		return errors.New("maximum page limit must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.AppURL == "" {
		return errors.New("application URL cannot be empty")
	}

	if c.NavTimeout <= 0 || c.StepTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	// Screenshot directory is created on demand so failed runs always have
	// somewhere to drop their artifacts.
	if c.ScreenshotDir != "" {
		if _, err := os.Stat(c.ScreenshotDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.ScreenshotDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create screenshot directory %s: %w", c.ScreenshotDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access screenshot directory %s: %w", c.ScreenshotDir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if the tool server runs over standard I/O.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, AppURL: %s, MaxPages: %d, MaxFileSize: %d, LogLevel: %s}",
		c.Mode, c.AppURL, c.MaxPages, c.MaxFileSize, c.LogLevel)
}
