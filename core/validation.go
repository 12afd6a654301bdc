// Copyright 2025 Clipkeep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"net/url"
	"slices"
	"unicode/utf8"
)

// Validation limits, counted in characters rather than bytes so multibyte
// text is not penalized. Soft caps enforced before any write is attempted,
// not by the storage layer.
const (
	MaxTitleLength = 200
	MaxTextLength  = 100_000
)

// ValidateNote validates a Note according to domain rules.
//
// Validation rules:
//   - Title must not exceed MaxTitleLength
//   - Text must not exceed MaxTextLength
//   - URL, when present, must parse as an absolute URL
//   - CreatedAt, when both timestamps are set, must not be after UpdatedAt
//
// NOT validated (populated by the save path):
//   - ID (empty means a new note)
//   - ImageIDs (populated by migration)
//   - timestamps on unsaved notes (zero until first save)
func ValidateNote(note *Note) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if titleLen := utf8.RuneCountInString(note.Title); titleLen > MaxTitleLength {
		return fmt.Errorf("%w: %w (%d > %d)", ErrInvalidNote, ErrTitleTooLong, titleLen, MaxTitleLength)
	}

	if textLen := utf8.RuneCountInString(note.Text); textLen > MaxTextLength {
		return fmt.Errorf("%w: %w (%d > %d)", ErrInvalidNote, ErrTextTooLong, textLen, MaxTextLength)
	}

	if note.URL != "" {
		if u, err := url.Parse(note.URL); err != nil || u.Scheme == "" {
			return fmt.Errorf("%w: %w: %q", ErrInvalidNote, ErrMalformedURL, note.URL)
		}
	}

	if !note.CreatedAt.IsZero() && !note.UpdatedAt.IsZero() && note.CreatedAt.After(note.UpdatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrInvalidTimestamp)
	}

	return nil
}

// NormalizeTags suppresses duplicate tags while preserving first-occurrence
// order. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || slices.Contains(normalized, tag) {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}
