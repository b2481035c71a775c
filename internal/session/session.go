// Package session writes per-request diagnostic records of the prompts sent
// to the model and what came back. A record groups one review call and one
// improve call and ends with a human-readable SUMMARY.md.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/copy-reviewer/internal/types"
)

const (
	reviewLog   = "review_detailed.log"
	improveLog  = "improve_detailed.log"
	summaryFile = "SUMMARY.md"
)

// Record is one provider exchange
type Record struct {
	System     string
	User       string
	Response   string
	Model      string
	Transport  string
	StopReason string
	Duration   time.Duration
}

// Store creates sessions under a root directory. A nil *Store hands out nil
// sessions, which record nothing.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir, or nil when dir is empty
func NewStore(dir string) *Store {
	if dir == "" {
		return nil
	}
	return &Store{dir: dir, now: time.Now}
}

// New starts a session. The directory is created on the first write.
func (s *Store) New() *Session {
	if s == nil {
		return nil
	}
	started := s.now()
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(started.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	id := fmt.Sprintf("session_%s_%s", stamp, uuid.NewString()[:8])
	return &Session{
		id:      id,
		dir:     filepath.Join(s.dir, id),
		started: started,
		now:     s.now,
	}
}

// Session is the diagnostic record of one request. Methods on a nil
// *Session are no-ops.
type Session struct {
	mu      sync.Mutex
	id      string
	dir     string
	started time.Time
	now     func() time.Time

	review        *Record
	reviewResult  *types.ReviewResult
	improve       *Record
	improveResult *types.ImproveResult
	improveInput  *types.ReviewResult
	sealed        bool
}

// ID returns the session identifier
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Dir returns the session directory
func (s *Session) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// Sealed reports whether the summary has been written
func (s *Session) Sealed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}

// AttachReview records the review exchange
func (s *Session) AttachReview(rec Record, result *types.ReviewResult) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.review = &rec
	s.reviewResult = result
	s.writeDetail(reviewLog, "review", rec, nil, result)
	s.maybeSummarize()
}

// AttachImprove records the improve exchange together with the review it was
// given.
func (s *Session) AttachImprove(rec Record, input *types.ReviewResult, result *types.ImproveResult) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.improve = &rec
	s.improveInput = input
	s.improveResult = result
	s.writeDetail(improveLog, "improve", rec, input, result)
	s.maybeSummarize()
}

func (s *Session) ensureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *Session) writeDetail(filename, kind string, rec Record, input *types.ReviewResult, parsed any) {
	if err := s.ensureDir(); err != nil {
		log.Printf("[session] failed to create %s: %v", s.dir, err)
		return
	}
	content := renderDetail(kind, s.now(), rec, input, parsed)
	if err := os.WriteFile(filepath.Join(s.dir, filename), []byte(content), 0o644); err != nil {
		log.Printf("[session] failed to write %s: %v", filename, err)
		return
	}
	log.Printf("[session] %s logged to %s", kind, filepath.Join(s.id, filename))
}

func (s *Session) maybeSummarize() {
	if s.review == nil || s.improve == nil {
		return
	}
	summary := renderSummary(summaryData{
		ID:            s.id,
		Generated:     s.now(),
		Total:         s.now().Sub(s.started),
		Review:        *s.review,
		ReviewResult:  s.reviewResult,
		Improve:       *s.improve,
		ImproveResult: s.improveResult,
	})
	if err := os.WriteFile(filepath.Join(s.dir, summaryFile), []byte(summary), 0o644); err != nil {
		log.Printf("[session] failed to write summary: %v", err)
		return
	}
	s.sealed = true
	log.Printf("[session] summary generated: %s", filepath.Join(s.id, summaryFile))
}

var rule = strings.Repeat("-", 80)

func renderDetail(kind string, at time.Time, rec Record, input *types.ReviewResult, parsed any) string {
	var sb strings.Builder
	banner := strings.Repeat("=", 80)
	fmt.Fprintf(&sb, "%s\n%s LOG\nGenerated: %s\n%s\n\n", banner, strings.ToUpper(kind), at.UTC().Format(time.RFC3339), banner)

	writeBlock(&sb, "SYSTEM PROMPT", rec.System)
	writeBlock(&sb, "USER PROMPT", rec.User)
	if input != nil {
		writeBlock(&sb, "REVIEW DATA (for improve step)", indentJSON(input))
	}
	writeBlock(&sb, "AI RESPONSE", rec.Response)
	if parsed != nil {
		writeBlock(&sb, "PARSED RESPONSE", indentJSON(parsed))
	}

	writeBlock(&sb, "METADATA", fmt.Sprintf("Model: %s\nTransport: %s\nResponse Time: %dms\nStop Reason: %s\nContent Length: %d characters",
		rec.Model, rec.Transport, rec.Duration.Milliseconds(), rec.StopReason, len(rec.Response)))
	return sb.String()
}

func writeBlock(sb *strings.Builder, title, body string) {
	fmt.Fprintf(sb, "%s:\n%s\n%s\n%s\n\n", title, rule, body, rule)
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
