package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/journeylog/journeylog/pkg/config"
	"github.com/journeylog/journeylog/pkg/parser"
)

// Reconstructor is a single-pass state machine that folds log entries into
// sessions. It holds all mutable parse state, so one instance must not be
// shared by concurrent parses; separate instances are fully independent.
type Reconstructor struct {
	cfg    *config.Config
	parser *parser.LineParser

	sessions []*Session
	current  int // index of the open session, -1 when none
	seen     map[uint64]struct{}

	linesProcessed int
}

// NewReconstructor creates a reconstructor with the given heuristics.
func NewReconstructor(cfg *config.Config) *Reconstructor {
	return &Reconstructor{
		cfg:     cfg,
		parser:  parser.NewLineParser(),
		current: -1,
		seen:    make(map[uint64]struct{}),
	}
}

// Parse is the one-shot convenience API: feed a whole log dump, get the
// reconstructed sessions.
func Parse(cfg *config.Config, text string) []*Session {
	r := NewReconstructor(cfg)
	for _, line := range strings.Split(text, "\n") {
		r.ProcessLine(line)
	}
	return r.Finalize()
}

// Run drains a line source through the reconstructor and finalizes.
func (r *Reconstructor) Run(ctx context.Context, source parser.LineSource) ([]*Session, error) {
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}
		r.ProcessLine(line.Text)
	}
	return r.Finalize(), nil
}

// LinesProcessed returns the number of non-blank lines seen so far.
func (r *Reconstructor) LinesProcessed() int {
	return r.linesProcessed
}

// ProcessLine handles one raw line: separator detection first, then entry
// parsing. Unrecognizable lines are skipped silently.
func (r *Reconstructor) ProcessLine(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	r.linesProcessed++

	if r.isSeparator(trimmed) {
		r.finalizeOpen(time.Time{})
		return
	}

	entry, ok := r.parser.Parse(text)
	if !ok {
		return
	}
	r.Process(entry)
}

// Process folds one parsed entry into session state.
func (r *Reconstructor) Process(entry *parser.LogEntry) {
	if !r.relevant(entry) {
		return
	}
	if r.isAdaptorNoise(entry.Message) {
		return
	}
	if !r.markSeen(entry) {
		return
	}

	msg := strings.ToLower(entry.Message)

	if matchesAny(msg, r.cfg.SessionStartKeywords) {
		// A start marker while a session is open means we missed its end.
		r.finalizeOpen(time.Time{})
		r.openSession(entry, entry.Timestamp)
		return
	}

	isView, screenName := r.screenView(entry)
	isAction := !isView && r.userAction(entry)

	if (isView && screenName != "") || isAction {
		if r.current < 0 {
			// Real activity without a start marker: the log was truncated.
			// Synthesize a start one time unit before the activity.
			r.openSession(entry, entry.Timestamp.Add(-time.Second))
		}
	}

	switch {
	case isView && screenName != "":
		r.visitScreen(screenName, entry.Timestamp)
	case isAction:
		r.appendAction(entry)
	}

	if matchesAny(msg, r.cfg.SessionEndKeywords) {
		r.finalizeOpen(entry.Timestamp)
	}
}

// Finalize closes any open session and returns the reconstructed sessions.
func (r *Reconstructor) Finalize() []*Session {
	r.finalizeOpen(time.Time{})
	return r.sessions
}

// Reset clears all state for reuse.
func (r *Reconstructor) Reset() {
	r.sessions = nil
	r.current = -1
	r.seen = make(map[uint64]struct{})
	r.linesProcessed = 0
}

// relevant reports whether the entry's category passes the allow-list.
// "main"-category lines pass only when they carry a session boundary or
// lifecycle signal, so bootstrap lines logged outside the analytics
// category are not lost.
func (r *Reconstructor) relevant(entry *parser.LogEntry) bool {
	cat := strings.ToLower(entry.Category)
	for _, allowed := range r.cfg.AllowedCategories {
		if strings.Contains(cat, strings.ToLower(allowed)) {
			return true
		}
	}

	if strings.Contains(cat, "main") {
		msg := strings.ToLower(entry.Message)
		return matchesAny(msg, r.cfg.SessionStartKeywords) ||
			matchesAny(msg, r.cfg.SessionEndKeywords)
	}

	return false
}

// isAdaptorNoise reports whether the message is a confirmation echo from a
// downstream analytics adaptor. Only the original send lines are
// authoritative.
func (r *Reconstructor) isAdaptorNoise(message string) bool {
	marker := false
	for _, m := range r.cfg.AdaptorMarkers {
		if strings.Contains(message, m) {
			marker = true
			break
		}
	}
	if !marker {
		return false
	}

	lower := strings.ToLower(message)
	for _, phrase := range r.cfg.AdaptorNoisePhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// markSeen records the entry in the per-parse dedup set. Returns false when
// the same physical line was already fed (e.g. mirrored sinks).
func (r *Reconstructor) markSeen(entry *parser.LogEntry) bool {
	h := fnv.New64a()
	_, _ = h.Write([]byte(entry.Message))
	id := uint64(entry.Timestamp.UnixNano()) ^ h.Sum64()

	if _, dup := r.seen[id]; dup {
		return false
	}
	r.seen[id] = struct{}{}
	return true
}

func (r *Reconstructor) isSeparator(line string) bool {
	for _, sep := range r.cfg.Separators {
		if strings.Contains(line, sep) {
			return true
		}
	}
	return false
}

// openSession starts a new session at startTime, pulling launch count and
// metadata from the entry's params.
func (r *Reconstructor) openSession(entry *parser.LogEntry, startTime time.Time) {
	s := &Session{
		Number:    len(r.sessions) + 1,
		StartTime: startTime,
		Metadata:  make(map[string]string),
	}

	if v, ok := firstParam(entry.Params, "launch_count", "launchCount", "count"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.LaunchCount = n
		}
	}
	if s.LaunchCount == 0 {
		s.LaunchCount = s.Number
	}

	for _, key := range r.cfg.MetadataKeys {
		if v := entry.Params[key]; v != "" {
			s.Metadata[key] = v
		}
	}

	r.sessions = append(r.sessions, s)
	r.current = len(r.sessions) - 1
}

// finalizeOpen closes the open session, if any. A zero endTime means the
// end was never observed (end of input or separator): fall back to the last
// screen's exit or entry time, or the start time for empty sessions.
func (r *Reconstructor) finalizeOpen(endTime time.Time) {
	if r.current < 0 {
		return
	}
	s := r.sessions[r.current]
	r.current = -1

	if endTime.IsZero() {
		endTime = s.StartTime
		if n := len(s.Screens); n > 0 {
			last := s.Screens[n-1]
			if !last.ExitTime.IsZero() {
				endTime = last.ExitTime
			} else {
				endTime = last.EntryTime
			}
		}
	}
	s.EndTime = endTime

	// Close remaining open screens, clamped to the duration floor.
	for i, sc := range s.Screens {
		if !sc.ExitTime.IsZero() {
			continue
		}
		var exit time.Time
		switch {
		case i+1 < len(s.Screens):
			exit = s.Screens[i+1].EntryTime
		case !s.EndTime.IsZero():
			exit = s.EndTime
		default:
			exit = sc.EntryTime.Add(r.cfg.MinScreenDuration)
		}
		sc.ExitTime = clampExit(sc.EntryTime, exit, r.cfg.MinScreenDuration)
	}

	if n := len(s.Screens); n > 0 {
		if last := s.Screens[n-1]; s.EndTime.Before(last.ExitTime) {
			s.EndTime = last.ExitTime
		}
	}
}

// screenView decides whether the entry is a screen-view and extracts the
// screen name. For sendEvent-shaped messages the event type token is the
// single disambiguation point: a screen-view event type means screen-view,
// anything else means user action.
func (r *Reconstructor) screenView(entry *parser.LogEntry) (bool, string) {
	if event, ok := parser.EventType(entry.Message, r.cfg.SendEventMarker); ok {
		if !containsFold(r.cfg.ScreenViewEvents, event) {
			return false, ""
		}
		return true, r.screenName(entry, event)
	}

	msg := strings.ToLower(entry.Message)
	if matchesAny(msg, r.cfg.ScreenViewKeywords) {
		if name := r.screenName(entry, ""); name != "" {
			return true, name
		}
	}

	return false, ""
}

// screenName extracts a screen name from recognized parameter keys, with
// specialized handling for paywall and overlay views.
func (r *Reconstructor) screenName(entry *parser.LogEntry, event string) string {
	for _, key := range r.cfg.ScreenParamKeys {
		if v := entry.Params[key]; v != "" {
			return v
		}
	}

	// Paywalls report a "type" instead of a name.
	context := strings.ToLower(event + " " + entry.Message)
	if strings.Contains(context, "paywall") {
		if t := entry.Params["type"]; t != "" {
			return "Paywall " + t
		}
	}

	// Secondary/overlay views carry their own keys.
	if v, ok := firstParam(entry.Params, "overlay", "secondary_view", "sheet"); ok {
		return v
	}

	return ""
}

// userAction decides whether the entry is a user action. Screen-view
// entries never reach this point for the same entry.
func (r *Reconstructor) userAction(entry *parser.LogEntry) bool {
	if event, ok := parser.EventType(entry.Message, r.cfg.SendEventMarker); ok {
		return !containsFold(r.cfg.ScreenViewEvents, event)
	}
	return matchesAny(strings.ToLower(entry.Message), r.cfg.ActionKeywords)
}

func matchesAny(lowerMsg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerMsg, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func firstParam(params map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if v := params[key]; v != "" {
			return v, true
		}
	}
	return "", false
}

func clampExit(entry, exit time.Time, floor time.Duration) time.Time {
	if min := entry.Add(floor); exit.Before(min) {
		return min
	}
	return exit
}
