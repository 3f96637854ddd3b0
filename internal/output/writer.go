// Package output prints negotiations to the terminal and writes run
// artifacts: transcript.json, report.md and negotiation.log.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lorenzotomasdiez/argue/internal/negotiation"
)

const (
	transcriptFile = "transcript.json"
	reportFile     = "report.md"
	logFile        = "negotiation.log"
	maxSlugLength  = 50
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a topic into a lowercase, dash separated directory
// name of at most 50 characters.
func GenerateSlug(topic string) string {
	slug := strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(topic), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "negotiation"
	}
	return slug
}

// CreateOutputDir creates base/slug-YYYYMMDD-HHMMSS and returns its path.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s-%s", slug, time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: creating %s: %w", dir, err)
	}
	return dir, nil
}

// Writer writes the artifacts of one run into a directory.
type Writer struct {
	dir     string
	mu      sync.Mutex
	entries []string
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Log records a timestamped entry and appends it to negotiation.log right
// away, so a crashed run still leaves its log behind.
func (w *Writer) Log(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339), msg)
	w.entries = append(w.entries, entry)

	f, err := os.OpenFile(filepath.Join(w.dir, logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, entry)
}

// WriteLog rewrites negotiation.log with every entry logged so far.
func (w *Writer) WriteLog() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var sb strings.Builder
	for _, entry := range w.entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}
	return w.write(logFile, []byte(sb.String()))
}

// WriteJSON writes the transcript as transcript.json.
func (w *Writer) WriteJSON(transcript *negotiation.Transcript) error {
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("output: encoding transcript: %w", err)
	}
	return w.write(transcriptFile, data)
}

// WriteMarkdown writes a human readable report.md.
func (w *Writer) WriteMarkdown(transcript *negotiation.Transcript, outcome *negotiation.Outcome) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Negotiation: %s\n\n", transcript.Topic)
	fmt.Fprintf(&sb, "- **ID:** %s\n", transcript.ID)
	fmt.Fprintf(&sb, "- **Participants:** %s\n", strings.Join(transcript.Participants, ", "))
	fmt.Fprintf(&sb, "- **Rounds:** %d\n", transcript.Rounds)
	fmt.Fprintf(&sb, "- **Stopped:** %s\n\n", transcript.Stop)

	if outcome != nil {
		sb.WriteString("## Outcome\n\n")
		if outcome.Agreed {
			fmt.Fprintf(&sb, "Agreement on **%s** between %s.\n\n", outcome.Item, strings.Join(outcome.Parties, " and "))
		} else {
			sb.WriteString("No agreement.\n\n")
		}
		if len(outcome.Rejected) > 0 {
			fmt.Fprintf(&sb, "Rejected: %s\n\n", strings.Join(outcome.Rejected, ", "))
		}
		fmt.Fprintf(&sb, "Arguments exchanged: %d\n\n", outcome.Arguments)
	}

	sb.WriteString("## Transcript\n")
	round := 0
	for _, rec := range transcript.Records {
		if rec.Round != round {
			round = rec.Round
			fmt.Fprintf(&sb, "\n### Round %d\n\n", round)
		}
		fmt.Fprintf(&sb, "- %s\n", FormatRecord(rec))
	}
	return w.write(reportFile, []byte(sb.String()))
}

func (w *Writer) write(name string, data []byte) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("output: creating %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	return nil
}
