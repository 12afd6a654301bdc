// Package export renders notes as Markdown documents.
package export

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipkeep/clipkeep/core"
)

// dataURI renders an image payload as an inline data URI, sniffing the
// content type from the payload itself.
func dataURI(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," +
		base64.StdEncoding.EncodeToString(data)
}

// SanitizeFileName strips characters that are unsafe in filenames and
// collapses whitespace runs.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NoteFilename builds the export filename for a note. Untitled notes fall
// back to a positional name.
func NoteFilename(note *core.Note, index int, extension string, when time.Time) string {
	base := SanitizeFileName(note.Title)
	if base == "" {
		base = fmt.Sprintf("note-%d", index+1)
	}
	return fmt.Sprintf("clipkeep-%s-%s.%s", base, when.Format("2006-01-02"), extension)
}

// Markdown renders notes into a single Markdown document. When
// includeImages is set, inline image payloads render as data URIs;
// otherwise each note states its image count.
func Markdown(notes []*core.Note, includeImages bool, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Clipkeep Export\n\n")
	fmt.Fprintf(&b, "**Exported**: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Total notes**: %d\n\n", len(notes))
	b.WriteString("---\n\n")

	for i, note := range notes {
		title := note.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, title)

		if note.URL != "" {
			fmt.Fprintf(&b, "**Source**: [%s](%s)\n\n", note.URL, note.URL)
		}
		if note.Category != "" {
			fmt.Fprintf(&b, "**Category**: %s\n\n", note.Category)
		}
		if len(note.Tags) > 0 {
			tags := make([]string, len(note.Tags))
			for j, t := range note.Tags {
				tags[j] = "#" + t
			}
			fmt.Fprintf(&b, "**Tags**: %s\n\n", strings.Join(tags, " "))
		}

		if note.Text != "" {
			b.WriteString("### Content\n\n")
			b.WriteString(note.Text)
			b.WriteString("\n\n")
		}

		imageCount := len(note.Images)
		if imageCount == 0 {
			imageCount = len(note.ImageIDs)
		}
		if imageCount > 0 {
			if includeImages && len(note.Images) > 0 {
				fmt.Fprintf(&b, "### Images (%d)\n\n", len(note.Images))
				for j, img := range note.Images {
					fmt.Fprintf(&b, "![image %d](%s)\n\n", j+1, dataURI(img))
				}
			} else {
				fmt.Fprintf(&b, "### Images: %d\n\n", imageCount)
			}
		}

		if !note.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "**Created**: %s\n", note.CreatedAt.Format(time.RFC3339))
		}
		if !note.UpdatedAt.IsZero() {
			fmt.Fprintf(&b, "**Updated**: %s\n", note.UpdatedAt.Format(time.RFC3339))
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}

// WriteFiles exports each note as its own Markdown file under dir, which is
// created on demand. It returns the written paths.
func WriteFiles(notes []*core.Note, dir string, includeImages bool, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(notes))
	for i, note := range notes {
		content := Markdown([]*core.Note{note}, includeImages, now)
		path := filepath.Join(dir, NoteFilename(note, i, "md", now))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
