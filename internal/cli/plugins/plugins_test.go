package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindPluginNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindPlugin("definitely-not-installed"); err != ErrPluginNotFound {
		t.Errorf("FindPlugin() error = %v, want ErrPluginNotFound", err)
	}
}

func TestFindPluginInPath(t *testing.T) {
	dir := t.TempDir()
	pluginPath := filepath.Join(dir, "journeylog-testplugin")
	if err := os.WriteFile(pluginPath, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	got, err := FindPlugin("testplugin")
	if err != nil {
		t.Fatalf("FindPlugin() error: %v", err)
	}
	if got != pluginPath {
		t.Errorf("FindPlugin() = %q, want %q", got, pluginPath)
	}
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()

	exec := filepath.Join(dir, "runnable")
	if err := os.WriteFile(exec, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if !isExecutable(exec) {
		t.Error("executable file not recognized")
	}
	if isExecutable(plain) {
		t.Error("non-executable file recognized as plugin")
	}
	if isExecutable(filepath.Join(dir, "missing")) {
		t.Error("missing file recognized as plugin")
	}
	if isExecutable(dir) {
		t.Error("directory recognized as plugin")
	}
}

func TestFormatNotFoundError(t *testing.T) {
	t.Run("known plugin", func(t *testing.T) {
		msg := FormatNotFoundError("watch")
		if !strings.Contains(msg, `"watch" is available as a plugin`) {
			t.Errorf("message missing known-plugin hint:\n%s", msg)
		}
		if !strings.Contains(msg, "journeylog-watch") {
			t.Errorf("message missing install locations:\n%s", msg)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		msg := FormatNotFoundError("frobnicate")
		if !strings.Contains(msg, `unknown command "frobnicate"`) {
			t.Errorf("message missing unknown-command line:\n%s", msg)
		}
		if !strings.Contains(msg, "journeylog-frobnicate") {
			t.Errorf("message missing plugin naming hint:\n%s", msg)
		}
	})
}
