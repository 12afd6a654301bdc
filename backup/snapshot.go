package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/clipkeep/clipkeep/core"
)

// SnapshotVersion is the version tag written into every snapshot.
const SnapshotVersion = "1.0"

// Snapshot is the serialized export of the note collection used for
// backup, restore, and export. The format is plain JSON so snapshots stay
// readable and portable outside the application.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportDate time.Time      `json:"exportDate"`
	TotalNotes int            `json:"totalNotes"`
	Notes      []SnapshotNote `json:"notes"`
}

// SnapshotNote is a note in snapshot form. The redacted form (images
// excluded) carries ImageCount instead of payloads; the full form inlines
// the payloads, which encode to base64 in JSON.
type SnapshotNote struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	Text       string    `json:"text,omitempty"`
	Images     [][]byte  `json:"images,omitempty"`
	ImageCount int       `json:"imageCount,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
	Category   string    `json:"category,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// redactedNote builds the image-free snapshot form of a note.
func redactedNote(note *core.Note) SnapshotNote {
	count := len(note.Images)
	if count == 0 {
		count = len(note.ImageIDs)
	}
	return SnapshotNote{
		ID:         note.ID,
		Title:      note.Title,
		URL:        note.URL,
		Text:       note.Text,
		ImageCount: count,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
		Category:   note.Category,
		Tags:       note.Tags,
	}
}

// fullNote builds the snapshot form with inline image payloads.
func fullNote(note *core.Note, images [][]byte) SnapshotNote {
	n := redactedNote(note)
	n.Images = images
	n.ImageCount = len(images)
	return n
}

// toNote converts a snapshot note back into the domain form. Inline images
// go through the regular save-path migration on import.
func (s SnapshotNote) toNote() *core.Note {
	return &core.Note{
		ID:        s.ID,
		Title:     s.Title,
		URL:       s.URL,
		Text:      s.Text,
		Images:    s.Images,
		Category:  s.Category,
		Tags:      s.Tags,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Encode renders the snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseSnapshot parses serialized snapshot bytes. A payload whose top-level
// notes field is missing or not an array fails with ErrInvalidSnapshot; no
// note is touched in that case.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var envelope struct {
		Version    string          `json:"version"`
		ExportDate time.Time       `json:"exportDate"`
		TotalNotes int             `json:"totalNotes"`
		Notes      json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if len(envelope.Notes) == 0 || string(envelope.Notes) == "null" {
		return nil, fmt.Errorf("%w: missing notes field", ErrInvalidSnapshot)
	}

	var notes []SnapshotNote
	if err := json.Unmarshal(envelope.Notes, &notes); err != nil {
		return nil, fmt.Errorf("%w: notes is not a sequence: %w", ErrInvalidSnapshot, err)
	}

	return &Snapshot{
		Version:    envelope.Version,
		ExportDate: envelope.ExportDate,
		TotalNotes: envelope.TotalNotes,
		Notes:      notes,
	}, nil
}
