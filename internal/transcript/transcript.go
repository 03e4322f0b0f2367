// Package transcript exports a finished conversation to a file.
// It only reads the history; nothing written here is ever loaded back.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/supportchat/internal/models"
)

// Format represents the format for exporting conversations
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Transcript is the exported view of one conversation
type Transcript struct {
	Title      string
	Service    string
	SessionID  string
	ExportedAt time.Time
	Messages   []models.Message
}

// New builds a transcript for the given history
func New(service, sessionID string, messages []models.Message) Transcript {
	return Transcript{
		Title:      models.AssistantName,
		Service:    service,
		SessionID:  sessionID,
		ExportedAt: time.Now(),
		Messages:   messages,
	}
}

// FormatForPath picks the export format from a file extension.
// Anything other than .json is written as markdown.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Markdown renders the transcript as a markdown document
func (t Transcript) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString("\n\n")

	if t.Service != "" {
		sb.WriteString("**Service:** ")
		sb.WriteString(t.Service)
		sb.WriteString("\n")
	}
	if t.SessionID != "" {
		sb.WriteString("**Session:** ")
		sb.WriteString(t.SessionID)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(t.ExportedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "**Messages:** %d\n\n---\n\n", len(t.Messages))

	for i, msg := range t.Messages {
		sb.WriteString("## ")
		if msg.IsUser() {
			sb.WriteString("You")
		} else {
			sb.WriteString("Assistant")
			if label := msg.Classification.Label(); label != "" {
				sb.WriteString(" · ")
				sb.WriteString(label)
			}
		}
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type jsonMessage struct {
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Classification string    `json:"classification,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type jsonTranscript struct {
	Title      string        `json:"title"`
	Service    string        `json:"service,omitempty"`
	SessionID  string        `json:"session_id,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

// JSON renders the transcript as indented JSON
func (t Transcript) JSON() ([]byte, error) {
	out := jsonTranscript{
		Title:      t.Title,
		Service:    t.Service,
		SessionID:  t.SessionID,
		ExportedAt: t.ExportedAt,
		Messages:   make([]jsonMessage, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		out.Messages[i] = jsonMessage{
			Sender:    string(msg.Sender),
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		}
		if !msg.IsUser() {
			out.Messages[i].Classification = msg.Classification.String()
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Encode renders the transcript in the requested format
func (t Transcript) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return t.JSON()
	case FormatMarkdown, "":
		return []byte(t.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", format)
	}
}

// WriteFile writes the transcript to path, choosing the format from the
// file extension. Parent directories are created as needed.
func (t Transcript) WriteFile(path string) error {
	data, err := t.Encode(FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
