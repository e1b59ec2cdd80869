package parser

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func drain(t *testing.T, src LineSource) []*Line {
	t.Helper()
	var lines []*Line
	for {
		line, err := src.Next(context.Background())
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestFileSourceReadsAllLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log",
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch\n"+
			"2024-01-15T10:00:05Z INFO [analytics] : sendEvent: screen_view, params: name:HOME\n")

	src := NewFileSource([]string{path})
	defer src.Close()

	lines := drain(t, src)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Num != 1 || lines[1].Num != 2 {
		t.Errorf("line numbers = %d, %d, want 1, 2", lines[0].Num, lines[1].Num)
	}
	if lines[0].Source != path {
		t.Errorf("Source = %q, want %q", lines[0].Source, path)
	}
	if lines[1].Timestamp.Before(lines[0].Timestamp) {
		t.Error("timestamps should be in file order")
	}
}

func TestFileSourceSeparatorInheritsTimestamp(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log",
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch\n"+
			"-- ** ** ** --\n"+
			"2024-01-15T10:05:00Z INFO [analytics] : app_launch\n")

	src := NewFileSource([]string{path})
	defer src.Close()

	lines := drain(t, src)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !lines[1].Timestamp.Equal(lines[0].Timestamp) {
		t.Errorf("separator timestamp = %v, want inherited %v", lines[1].Timestamp, lines[0].Timestamp)
	}
}

func TestFileSourceMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", "2024-01-15T10:00:00Z INFO [analytics] : one\n")
	b := writeLog(t, dir, "b.log", "2024-01-15T11:00:00Z INFO [analytics] : two\n")

	src := NewFileSource([]string{a, b})
	defer src.Close()

	lines := drain(t, src)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Source != a || lines[1].Source != b {
		t.Errorf("sources = %q, %q, want %q, %q", lines[0].Source, lines[1].Source, a, b)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource([]string{"/nonexistent/app.log"})
	defer src.Close()

	_, err := src.Next(context.Background())
	if err == nil || err == io.EOF {
		t.Fatalf("Next() = %v, want open error", err)
	}
}

func TestFileSourceContextCancellation(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log", "2024-01-15T10:00:00Z INFO [analytics] : app_launch\n")

	src := NewFileSource([]string{path})
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestStringSource(t *testing.T) {
	src := NewStringSource(
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch\n" +
			"not a log line\n" +
			"2024-01-15T10:00:10Z INFO [analytics] : session_end")
	defer src.Close()

	lines := drain(t, src)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !lines[1].Timestamp.Equal(lines[0].Timestamp) {
		t.Error("untimestamped line should inherit the previous timestamp")
	}
	if lines[2].Timestamp.Equal(lines[0].Timestamp) {
		t.Error("third line should carry its own timestamp")
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a.log", "x\n")
	writeLog(t, dir, "b.log", "x\n")
	writeLog(t, dir, "c.txt", "x\n")

	t.Run("glob pattern", func(t *testing.T) {
		files, err := ExpandGlobs([]string{filepath.Join(dir, "*.log")})
		if err != nil {
			t.Fatalf("ExpandGlobs() error: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("got %d files, want 2: %v", len(files), files)
		}
	})

	t.Run("deduplicates overlapping patterns", func(t *testing.T) {
		files, err := ExpandGlobs([]string{
			filepath.Join(dir, "a.log"),
			filepath.Join(dir, "*.log"),
		})
		if err != nil {
			t.Fatalf("ExpandGlobs() error: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("got %d files, want 2: %v", len(files), files)
		}
	})

	t.Run("non-matching pattern passes through", func(t *testing.T) {
		files, err := ExpandGlobs([]string{filepath.Join(dir, "missing.log")})
		if err != nil {
			t.Fatalf("ExpandGlobs() error: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want the literal path back", len(files))
		}
	})
}
