package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LineSource provides an iterator over raw log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next raw line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}

// FileSource implements LineSource for reading from log files.
// Every line is delivered, including separators and unparseable noise;
// deciding what a line means is the reconstructor's job.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int

	lastTS *Line
}

// NewFileSource creates a LineSource that reads from the given files in order.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next raw log line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			text := s.currentScanner.Text()

			line := &Line{
				Text:   text,
				Source: s.currentSource,
				Num:    s.currentLine,
			}

			if ts, ok := ExtractLineTimestamp(text); ok {
				line.Timestamp = ts
				s.lastTS = line
			} else if s.lastTS != nil {
				// Untimestamped lines (separators, continuations) inherit
				// the previous timestamp so merged streams stay ordered.
				line.Timestamp = s.lastTS.Timestamp
			}

			return line, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
		s.currentScanner = nil
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// StringSource implements LineSource over an in-memory log dump.
type StringSource struct {
	lines  []string
	pos    int
	lastTS *Line
}

// NewStringSource creates a LineSource over newline-delimited text.
func NewStringSource(text string) *StringSource {
	return &StringSource{lines: strings.Split(text, "\n")}
}

// Next returns the next raw line, or io.EOF when the text is exhausted.
func (s *StringSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}

	text := s.lines[s.pos]
	s.pos++

	line := &Line{Text: text, Num: s.pos}
	if ts, ok := ExtractLineTimestamp(text); ok {
		line.Timestamp = ts
		s.lastTS = line
	} else if s.lastTS != nil {
		line.Timestamp = s.lastTS.Timestamp
	}

	return line, nil
}

// Close is a no-op for in-memory sources.
func (s *StringSource) Close() error { return nil }

// ExpandGlobs expands a list of file paths and glob patterns into a
// deduplicated, sorted list of matching file paths. Patterns that match
// nothing are returned as-is so the caller can report file-not-found.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)

	return result, nil
}
