package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// resetFlags gives each test a fresh flag set and viper instance
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// clearEnvVars removes every LIQ_ variable for the duration of the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MODE", "HOST", "PORT", "DIR", "OUTDIR", "LOGLEVEL",
		"LOGFORMAT", "MAXFILESIZE", "WORKERS", "INCOMETAX",
	} {
		key := EnvPrefix + "_" + name
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

// withArgs swaps os.Args and resets flag state, restoring both afterwards
func withArgs(t *testing.T, args ...string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
	})
	os.Args = args
	resetFlags()
	clearEnvVars(t)
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	withArgs(t, "mcp-liquidaciones")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeStdio {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, DefaultPort)
	}
	if cfg.LogFormat != LogFormatText {
		t.Errorf("LoadFromFlags() LogFormat = %v, want %v", cfg.LogFormat, LogFormatText)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, DefaultMaxFileSize)
	}
	if !filepath.IsAbs(cfg.PDFDirectory) || !filepath.IsAbs(cfg.OutputDirectory) {
		t.Errorf("LoadFromFlags() directories should be absolute: %s, %s", cfg.PDFDirectory, cfg.OutputDirectory)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	withArgs(t, "mcp-liquidaciones",
		"--mode=server", "--host=0.0.0.0", "--port=9000",
		"--dir="+dir, "--outdir="+out,
		"--loglevel=debug", "--logformat=json",
		"--maxfilesize=4096", "--workers=3", "--incometax",
	)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeServer || cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("LoadFromFlags() server = %s %s", cfg.Mode, cfg.Address())
	}
	if cfg.PDFDirectory != dir {
		t.Errorf("LoadFromFlags() PDFDirectory = %v, want %v", cfg.PDFDirectory, dir)
	}
	if cfg.OutputDirectory != out {
		t.Errorf("LoadFromFlags() OutputDirectory = %v, want %v", cfg.OutputDirectory, out)
	}
	if !cfg.IsDebug() || cfg.LogFormat != LogFormatJSON {
		t.Errorf("LoadFromFlags() logging = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MaxFileSize != 4096 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want 4096", cfg.MaxFileSize)
	}
	if cfg.Workers != 3 {
		t.Errorf("LoadFromFlags() Workers = %v, want 3", cfg.Workers)
	}
	if !cfg.IncomeTaxWithholding {
		t.Error("LoadFromFlags() IncomeTaxWithholding should be on")
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, "mcp-liquidaciones")

	t.Setenv("LIQ_MODE", "server")
	t.Setenv("LIQ_PORT", "3000")
	t.Setenv("LIQ_DIR", dir)
	t.Setenv("LIQ_LOGLEVEL", "warn")
	t.Setenv("LIQ_WORKERS", "5")
	t.Setenv("LIQ_INCOMETAX", "true")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeServer {
		t.Errorf("LoadFromFlags() Mode = %v, want server", cfg.Mode)
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want 3000", cfg.Port)
	}
	if cfg.PDFDirectory != dir {
		t.Errorf("LoadFromFlags() PDFDirectory = %v, want %v", cfg.PDFDirectory, dir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.Workers != 5 {
		t.Errorf("LoadFromFlags() Workers = %v, want 5", cfg.Workers)
	}
	if !cfg.IncomeTaxWithholding {
		t.Error("LoadFromFlags() IncomeTaxWithholding should come from LIQ_INCOMETAX")
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	withArgs(t, "mcp-liquidaciones", "--mode=stdio", "--workers=2")

	t.Setenv("LIQ_MODE", "server")
	t.Setenv("LIQ_WORKERS", "8")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Mode != ModeStdio {
		t.Errorf("LoadFromFlags() Mode = %v, want stdio (should override env)", cfg.Mode)
	}
	if cfg.Workers != 2 {
		t.Errorf("LoadFromFlags() Workers = %v, want 2 (should override env)", cfg.Workers)
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"mode", []string{"mcp-liquidaciones", "--mode=http"}},
		{"port", []string{"mcp-liquidaciones", "--mode=server", "--port=0"}},
		{"log level", []string{"mcp-liquidaciones", "--loglevel=trace"}},
		{"log format", []string{"mcp-liquidaciones", "--logformat=xml"}},
		{"workers", []string{"mcp-liquidaciones", "--workers=0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			if _, err := LoadFromFlags(); err == nil {
				t.Errorf("LoadFromFlags(%v) expected error", tt.args)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-version", "-v"} {
		withArgs(t, "mcp-liquidaciones", flag)
		_, err := LoadFromFlags()
		if !errors.Is(err, ErrVersionRequested) {
			t.Errorf("LoadFromFlags(%s) error = %v, want ErrVersionRequested", flag, err)
		}
	}
}

func TestLoadExportFromFlags(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "batch.json")
	withArgs(t, "liquidaciones-export",
		"--dir="+dir, "--prefix=2025-11_", "--json="+jsonPath, "--mode=server",
	)

	cfg, err := LoadExportFromFlags()
	if err != nil {
		t.Fatalf("LoadExportFromFlags() unexpected error: %v", err)
	}
	if cfg.Prefix != "2025-11_" {
		t.Errorf("LoadExportFromFlags() Prefix = %v, want 2025-11_", cfg.Prefix)
	}
	if cfg.JSONPath != jsonPath {
		t.Errorf("LoadExportFromFlags() JSONPath = %v, want %v", cfg.JSONPath, jsonPath)
	}
	if cfg.PDFDirectory != dir {
		t.Errorf("LoadExportFromFlags() PDFDirectory = %v, want %v", cfg.PDFDirectory, dir)
	}
	if !cfg.IsStdioMode() {
		t.Errorf("LoadExportFromFlags() Mode = %v, the export command never serves", cfg.Mode)
	}
}
