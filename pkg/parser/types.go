// Package parser turns raw analytics log text into structured log entries.
package parser

import "time"

// LogEntry is one recognized log line. Entries are immutable once created
// and are discarded after being folded into session state.
type LogEntry struct {
	// Timestamp is the parsed absolute time of the line.
	Timestamp time.Time

	// Level is the free-text severity token (may be empty for loose formats).
	Level string

	// Category is the bracketed subsystem tag.
	Category string

	// Message is the remaining free text of the line.
	Message string

	// Params holds key-value pairs scanned out of the message.
	// Keys matched by multiple extraction passes keep the last value.
	Params map[string]string
}

// Line is a raw log line before entry parsing.
type Line struct {
	// Text is the raw line content.
	Text string

	// Source is the file path this line came from ("" for in-memory input).
	Source string

	// Num is the 1-based line number in the source.
	Num int

	// Timestamp is the best-effort timestamp extracted from the line.
	// Lines without a recognizable timestamp inherit the previous line's,
	// so separator lines keep their position when sources are merged.
	Timestamp time.Time
}
