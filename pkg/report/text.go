package report

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter renders the journey report as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		fmt.Fprintf(w, "JourneyLog: %d sessions, %d lines processed\n",
			report.Summary.Sessions, report.Summary.LinesProcessed)
		return nil
	}

	if _, err := io.WriteString(w, Generate(report.Sessions)); err != nil {
		return err
	}

	if f.opts.Verbose {
		fmt.Fprintln(w, "---")
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		if len(report.Metadata.Sources) > 0 {
			fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
		}
	}

	return nil
}
