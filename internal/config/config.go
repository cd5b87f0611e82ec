package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/logger"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix prefixes every environment variable, e.g. TRADEDOC_DIR.
	EnvPrefix = "TRADEDOC"
)

// ErrVersionRequested is returned by Load when --version is given.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the trade document reader
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Source configuration
	Directory   string
	MaxFileSize int64 // Maximum source file size in bytes

	// Extraction configuration
	Duplicates string // invoice duplicate EAN policy: overwrite or sum
	DocType    string // default document type: auto, invoice or packing_list

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string // console or json
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:        ModeStdio, // Default to stdio mode for MCP compatibility
		Host:        DefaultHost,
		Port:        DefaultPort,
		Directory:   currentDir,
		MaxFileSize: DefaultMaxFileSize,
		Duplicates:  string(invoice.DuplicateOverwrite),
		DocType:     string(document.TypeAuto),
		Version:     "1.0.0",
		ServerName:  "tradedoc-reader",
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// LoadFromFlags parses the process arguments and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args and TRADEDOC_* environment variables into a validated
// configuration. Flags take precedence over the environment.
func Load(program string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	if hasVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	flags.Usage = func() { printUsage(os.Stderr, program, flags) }
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("duplicates", cfg.Duplicates)
	v.SetDefault("doctype", cfg.DocType)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP (SSE) server")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.Directory, "Directory containing trade documents")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("logformat", cfg.LogFormat, "Log format (console, json)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum source file size in bytes")
	flags.String("duplicates", cfg.Duplicates, "Duplicate EAN policy for invoices (overwrite, sum)")
	flags.String("doctype", cfg.DocType, "Default document type (auto, invoice, packing_list)")
}

func printUsage(w io.Writer, program string, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage of %s:\n", program)
	fmt.Fprintf(w, "\nTrade Document Reader - extracts commercial invoices and packing lists over MCP\n\n")
	fmt.Fprintf(w, "Options:\n")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s                                          # stdio mode, current directory (default)\n", program)
	fmt.Fprintf(w, "  %s --dir=/path/to/shipments                 # stdio mode with custom directory\n", program)
	fmt.Fprintf(w, "  %s --mode=server --dir=/path/to/shipments   # server mode\n", program)
	fmt.Fprintf(w, "  %s --duplicates=sum                         # add up repeated EAN lines\n", program)
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	for _, name := range []string{"mode", "host", "port", "dir", "loglevel", "logformat", "maxfilesize", "duplicates", "doctype"} {
		fmt.Fprintf(w, "  %s_%s\n", EnvPrefix, strings.ToUpper(name))
	}
}

func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Directory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.Duplicates = v.GetString("duplicates")
	cfg.DocType = v.GetString("doctype")
}

// Validate checks if the configuration is valid. The directory does not
// have to exist yet.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("directory cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
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

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	if _, err := invoice.ParseDuplicatePolicy(c.Duplicates); err != nil {
		return err
	}
	if _, err := document.ParseType(c.DocType); err != nil {
		return err
	}

	return nil
}

// DuplicatePolicy returns the configured invoice duplicate policy
func (c *Config) DuplicatePolicy() invoice.DuplicatePolicy {
	p, err := invoice.ParseDuplicatePolicy(c.Duplicates)
	if err != nil {
		return invoice.DuplicateOverwrite
	}
	return p
}

// DocumentType returns the configured default document type
func (c *Config) DocumentType() document.Type {
	t, err := document.ParseType(c.DocType)
	if err != nil {
		return document.TypeAuto
	}
	return t
}

// LogConfig returns the logging configuration. Logs always go to stderr so
// that stdout stays free for the MCP stdio stream.
func (c *Config) LogConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Output = "stderr"
	return lc
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, LogLevel: %s, MaxFileSize: %d, Duplicates: %s, DocType: %s}",
		c.Mode, c.Host, c.Port, c.Directory, c.LogLevel, c.MaxFileSize, c.Duplicates, c.DocType)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
