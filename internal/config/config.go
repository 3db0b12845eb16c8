package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Log formats
	LogFormatText = "text"
	LogFormatJSON = "json"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = LogFormatText
	DefaultMaxFileSize = 20 * 1024 * 1024 // 20MB
	DefaultOutputDir   = "salida"

	// EnvPrefix prefixes every environment variable, e.g. LIQ_DIR
	EnvPrefix = "LIQ"
)

// ErrVersionRequested is returned by the loaders when --version is passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the settlement server and CLI
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Settlement configuration
	PDFDirectory         string
	OutputDirectory      string
	MaxFileSize          int64 // Maximum PDF file size in bytes
	Workers              int   // Parallel documents in a batch
	IncomeTaxWithholding bool  // Export the resolved income tax withholding

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// ExportConfig adds the batch export options to Config
type ExportConfig struct {
	Config
	Prefix   string // Prepended to each workbook name
	JSONPath string // Optional JSON dump of the batch
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		PDFDirectory:    currentDir,
		OutputDirectory: filepath.Join(currentDir, DefaultOutputDir),
		MaxFileSize:     DefaultMaxFileSize,
		Workers:         runtime.NumCPU(),
		Version:         "1.0.0",
		ServerName:      "mcp-liquidaciones",
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage(serverUsage)

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadExportFromFlags parses the flags of the batch export command
func LoadExportFromFlags() (*ExportConfig, error) {
	cfg := &ExportConfig{Config: *DefaultConfig()}

	setupViperEnvironment(&cfg.Config)
	viper.SetDefault("prefix", "")
	viper.SetDefault("json", "")

	defineCommandLineFlags(&cfg.Config)
	pflag.String("prefix", "", "Prefix for the workbook file names")
	pflag.String("json", "", "Also write the batch as JSON to this path")

	bindFlagsToViper()
	_ = viper.BindPFlag("prefix", pflag.Lookup("prefix"))
	_ = viper.BindPFlag("json", pflag.Lookup("json"))
	setupUsageMessage(exportUsage)

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(&cfg.Config)
	cfg.Prefix = viper.GetString("prefix")
	cfg.JSONPath = viper.GetString("json")

	// the export command has no server to run
	cfg.Mode = ModeStdio
	if err := finalize(&cfg.Config); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finalize(cfg *Config) error {
	// Expand paths if needed
	for _, p := range []*string{&cfg.PDFDirectory, &cfg.OutputDirectory} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("outdir", cfg.OutputDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("incometax", cfg.IncomeTaxWithholding)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing settlement PDF files")
	pflag.String("outdir", cfg.OutputDirectory, "Directory the workbooks are written to")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (text, json)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("workers", cfg.Workers, "Documents processed in parallel")
	pflag.Bool("incometax", cfg.IncomeTaxWithholding, "Export the income tax withholding (RA05) instead of zero")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "outdir", "loglevel",
		"logformat", "maxfilesize", "workers", "incometax",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

const serverUsage = `
MCP Liquidaciones - A Model Context Protocol server that extracts grain settlement PDFs

Examples:
  %[1]s                                          # stdio mode, current directory (default)
  %[1]s --dir=/path/to/liquidaciones             # stdio mode with custom directory
  %[1]s --mode=server --dir=/path/to/liquidaciones # server mode
  %[1]s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces
`

const exportUsage = `
Liquidaciones Export - Extracts every settlement PDF of a directory into Ventas, Gastos and CPNs workbooks

Examples:
  %[1]s --dir=/path/to/liquidaciones --outdir=/path/to/salida
  %[1]s --dir=./2025-11 --prefix=2025-11_ --json=./2025-11.json
`

// setupUsageMessage configures the custom usage message
func setupUsageMessage(text string) {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, text, os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LIQ_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  LIQ_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  LIQ_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  LIQ_DIR          Settlement PDF directory\n")
		fmt.Fprintf(os.Stderr, "  LIQ_OUTDIR       Workbook output directory\n")
		fmt.Fprintf(os.Stderr, "  LIQ_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  LIQ_LOGFORMAT    Log format\n")
		fmt.Fprintf(os.Stderr, "  LIQ_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  LIQ_WORKERS      Parallel documents\n")
		fmt.Fprintf(os.Stderr, "  LIQ_INCOMETAX    Export income tax withholding\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.OutputDirectory = viper.GetString("outdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Workers = viper.GetInt("workers")
	cfg.IncomeTaxWithholding = viper.GetBool("incometax")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s (must be one of: text, json)", c.LogFormat)
	}

	return nil
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, OutputDirectory: %s, "+
		"LogLevel: %s, LogFormat: %s, MaxFileSize: %d, Workers: %d, IncomeTaxWithholding: %t}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.OutputDirectory,
		c.LogLevel, c.LogFormat, c.MaxFileSize, c.Workers, c.IncomeTaxWithholding)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
