package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-annotate/pkg/annotate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output = %q, want it to contain %q", out, Version)
	}
}

func TestConvertToStdout(t *testing.T) {
	in := filepath.Join(t.TempDir(), "annotate.conf")
	if err := os.WriteFile(in, []byte("pen_color blue\npen_size 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "convert", in)
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	for _, want := range []string{"annotate.config = {", "pen_size = 6", "-- Ink"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "annotate.conf")
	outPath := filepath.Join(dir, "config.lua")
	if err := os.WriteFile(in, []byte("pen_size 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "convert", "--no-comments", in, outPath)
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if strings.Contains(string(data), "-- Ink") {
		t.Errorf("--no-comments output has comments:\n%s", data)
	}
	if !strings.Contains(string(data), "pen_size = 6") {
		t.Errorf("output missing pen_size:\n%s", data)
	}
}

func TestConvertErrors(t *testing.T) {
	if _, err := execute(t, "convert"); err == nil {
		t.Error("convert without arguments should fail")
	}
	if _, err := execute(t, "convert", "/nonexistent/annotate.conf"); err == nil {
		t.Error("convert of a missing file should fail")
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "--headless"); err == nil || !strings.Contains(err.Error(), "log level") {
		t.Errorf("error = %v, want unknown log level", err)
	}
	if _, err := execute(t, "-c", "/nonexistent/config.lua", "--headless"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want configuration file not found", err)
	}
	if _, err := execute(t, "run", "extra"); err == nil {
		t.Error("run with positional arguments should fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", true)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNewOverlayDefaults(t *testing.T) {
	o, err := newOverlay("", &annotate.Options{Headless: true})
	if err != nil {
		t.Fatalf("newOverlay() error = %v", err)
	}
	if got := o.Status().ConfigSource; got != "memory" {
		t.Errorf("ConfigSource = %q, want memory", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	if got := defaultConfigPath(); got != "" {
		t.Errorf("defaultConfigPath() = %q with no file, want empty", got)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	path := filepath.Join(base, "go-annotate", "config.lua")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("annotate.config = {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := defaultConfigPath(); got != path {
		t.Errorf("defaultConfigPath() = %q, want %q", got, path)
	}
}

type fakeController struct {
	mode     annotate.Mode
	stopped  bool
	reloads  int
	exported []annotate.Format
}

func (f *fakeController) Stop() error             { f.stopped = true; return nil }
func (f *fakeController) ReloadConfig() error     { f.reloads++; return nil }
func (f *fakeController) Mode() annotate.Mode     { return f.mode }
func (f *fakeController) SetMode(m annotate.Mode) { f.mode = m }
func (f *fakeController) Export(fm annotate.Format) (string, error) {
	f.exported = append(f.exported, fm)
	return "out.png", nil
}

func TestToggleMode(t *testing.T) {
	tests := []struct {
		from, want annotate.Mode
	}{
		{annotate.ModeCursor, annotate.ModePen},
		{annotate.ModePen, annotate.ModeCursor},
		{annotate.ModeHighlighter, annotate.ModeCursor},
		{annotate.ModeMagicPen, annotate.ModeCursor},
	}
	for _, tt := range tests {
		c := &fakeController{mode: tt.from}
		if got := toggleMode(c); got != tt.want || c.mode != tt.want {
			t.Errorf("toggleMode(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}
