// Package detector analyzes log files to identify their line format and
// event vocabulary, to help configure the session reconstructor.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/journeylog/journeylog/pkg/parser"
)

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches      []FormatMatch  // Formats that matched, sorted by confidence descending
	SampledLines int            // Number of lines sampled
	ParsedLines  int            // Number of lines matching the best format
	Categories   map[string]int // Bracketed categories seen, with counts
	MarkerLines  int            // Lines containing the send-event marker
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *LineFormat
	Confidence float64 // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int     // Number of lines that matched
	SampleLine string  // Example line that matched
}

// Detector analyzes log files to identify analytics line formats.
type Detector struct {
	formats    []*LineFormat
	marker     string
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithMarker sets the send-event marker tallied during detection.
func WithMarker(marker string) Option {
	return func(d *Detector) {
		d.marker = marker
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a log file and returns detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
		Categories:   make(map[string]int),
	}

	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		format     *LineFormat
		matchCount int
		sampleLine string
	}
	stats := make(map[string]*formatStats)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			if _, ok := parser.ParseTimestamp(matches[1]); !ok {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{format: format, sampleLine: line}
			}
			stats[key].matchCount++
		}

		if m := categoryPattern.FindStringSubmatch(line); m != nil {
			result.Categories[strings.ToLower(m[1])]++
		}
		if d.marker != "" && strings.Contains(line, d.marker) {
			result.MarkerLines++
		}
	}

	for _, s := range stats {
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
		})
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	return result
}

// sampleFile reads up to sampleSize lines from a file.
// Uses simple head sampling for efficiency.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() && len(lines) < d.sampleSize {
		line := scanner.Text()
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// TopCategories returns categories sorted by frequency, most common first.
func (r *DetectionResult) TopCategories() []string {
	cats := make([]string, 0, len(r.Categories))
	for c := range r.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if r.Categories[cats[i]] != r.Categories[cats[j]] {
			return r.Categories[cats[i]] > r.Categories[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
