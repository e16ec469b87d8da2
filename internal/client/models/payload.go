package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// MediaType is the logical type of a media capture.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Geo is an optional capture location.
type Geo struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name,omitempty"`
}

// Media is a photo or video. Data is kept as an opaque buffer and never
// transcoded; it is stored in the binary column, not in the JSON document.
type Media struct {
	Data       []byte     `json:"-"`
	MimeType   string     `json:"mime_type"`
	Type       MediaType  `json:"type"`
	Size       int64      `json:"size"`
	Caption    string     `json:"caption,omitempty"`
	Location   *Geo       `json:"location,omitempty"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

func (Media) Kind() Kind { return KindMedia }

func (m Media) validate() error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%w: empty media content", common.ErrInvalidArtifact)
	}
	if m.Type != MediaPhoto && m.Type != MediaVideo {
		return fmt.Errorf("%w: media type %q", common.ErrInvalidArtifact, m.Type)
	}
	return nil
}

// Extension returns a file extension derived from the MIME type.
func (m Media) Extension() string {
	return ExtensionFor(m.MimeType)
}

// ExtensionFor maps a MIME type such as "image/jpeg" to ".jpg".
func ExtensionFor(mimeType string) string {
	_, sub, ok := strings.Cut(mimeType, "/")
	if !ok || sub == "" {
		return ".bin"
	}
	sub, _, _ = strings.Cut(sub, ";")
	switch sub {
	case "jpeg":
		return ".jpg"
	case "quicktime":
		return ".mov"
	case "mpeg":
		return ".mp3"
	}
	return "." + sub
}

// Note is free text, optionally dictated; Audio holds the raw recording.
type Note struct {
	Text          string `json:"text"`
	Audio         []byte `json:"-"`
	AudioMimeType string `json:"audio_mime_type,omitempty"`
}

func (Note) Kind() Kind { return KindNote }

func (n Note) validate() error {
	if strings.TrimSpace(n.Text) == "" && len(n.Audio) == 0 {
		return fmt.Errorf("%w: empty note", common.ErrInvalidArtifact)
	}
	return nil
}

// Priority is shared by tasks and checklist rows.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority maps user input to a Priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	case PriorityUrgent:
		return PriorityUrgent
	default:
		return PriorityMedium
	}
}

type Task struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (Task) Kind() Kind { return KindTask }

func (t Task) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task title is required", common.ErrInvalidArtifact)
	}
	return nil
}

// ChecklistItem is one row of a checklist; row order is significant.
type ChecklistItem struct {
	Text      string   `json:"text"`
	Priority  Priority `json:"priority"`
	Category  string   `json:"category"`
	Completed bool     `json:"completed"`
}

type Checklist struct {
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

func (Checklist) Kind() Kind { return KindChecklist }

func (c Checklist) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: checklist title is required", common.ErrInvalidArtifact)
	}
	return nil
}
