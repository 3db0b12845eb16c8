package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/a3tai/mcp-liquidaciones/internal/config"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()
	version = "1.2.3"
	buildTime = "2025-11-20_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)
	output := buf.String()

	for _, expected := range []string{
		"MCP Liquidaciones",
		"Version: 1.2.3",
		"Build Time: 2025-11-20_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing %q\nActual output:\n%s", expected, output)
		}
	}
}

func TestRun_InvalidDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PDFDirectory = ""
	cfg.OutputDirectory = ""

	if err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("run() without directories should fail")
	}
}
