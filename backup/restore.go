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

package backup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
)

// Mode selects how restored notes combine with existing ones.
type Mode string

const (
	// ModeMerge imports snapshot notes alongside existing notes, skipping
	// duplicates of notes that were already present.
	ModeMerge Mode = "merge"
	// ModeReplace clears the note repository before importing.
	ModeReplace Mode = "replace"
)

// ParseMode parses the wire/CLI name of a restore mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMerge, ModeReplace:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRestoreMode, s)
	}
}

// Result summarizes a restore run.
type Result struct {
	Imported int
	Skipped  int
}

// Restorer imports snapshots into a note repository.
type Restorer struct {
	notes  storage.NoteRepository
	blobs  storage.BlobStore
	logger *slog.Logger
}

// NewRestorer creates a restorer over the given repositories.
func NewRestorer(notes storage.NoteRepository, blobs storage.BlobStore, logger *slog.Logger) (*Restorer, error) {
	if notes == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Restorer{notes: notes, blobs: blobs, logger: logger}, nil
}

// Restore parses raw snapshot bytes and imports them.
//
// In merge mode a snapshot note is a duplicate, and is skipped, when a note
// with the same id already existed before the restore began, or when a
// pre-existing note has the same title and url. Duplicates within the
// snapshot itself, or against notes imported by this same run, are not
// detected. In replace mode every existing note is removed first, then the
// orphaned image blobs are swept, and nothing is skipped.
//
// An unparsable snapshot fails with ErrInvalidSnapshot before any note is
// touched.
func (r *Restorer) Restore(ctx context.Context, raw []byte, mode Mode) (*Result, error) {
	snap, err := ParseSnapshot(raw)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeMerge:
		return r.merge(ctx, snap)
	case ModeReplace:
		return r.replace(ctx, snap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRestoreMode, mode)
	}
}

func (r *Restorer) merge(ctx context.Context, snap *Snapshot) (*Result, error) {
	existing, err := r.notes.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(existing))
	fingerprints := make(map[uint64]struct{}, len(existing))
	for _, n := range existing {
		ids[n.ID] = struct{}{}
		fingerprints[core.Fingerprint(n.Title, n.URL)] = struct{}{}
	}

	result := &Result{}
	for _, sn := range snap.Notes {
		if _, dup := ids[sn.ID]; dup {
			result.Skipped++
			continue
		}
		if _, dup := fingerprints[core.Fingerprint(sn.Title, sn.URL)]; dup {
			result.Skipped++
			continue
		}
		if _, err := r.notes.Save(ctx, sn.toNote()); err != nil {
			return result, err
		}
		result.Imported++
	}

	r.logger.Info("restore merged",
		"imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (r *Restorer) replace(ctx context.Context, snap *Snapshot) (*Result, error) {
	if err := r.notes.Clear(ctx); err != nil {
		return nil, err
	}
	// Every blob is now an orphan.
	if _, err := r.blobs.SweepOrphans(ctx, nil); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, sn := range snap.Notes {
		if _, err := r.notes.Save(ctx, sn.toNote()); err != nil {
			return result, err
		}
		result.Imported++
	}

	r.logger.Info("restore replaced", "imported", result.Imported)
	return result, nil
}
