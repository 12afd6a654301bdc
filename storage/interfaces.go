package storage

import (
	"context"

	"github.com/clipkeep/clipkeep/core"
)

// NoteRepository provides CRUD and search over note records. It delegates
// image persistence to a BlobStore transparently: callers never hand blob
// payloads to the BlobStore themselves.
type NoteRepository interface {
	// ListAll returns every note, sorted by CreatedAt descending (newest
	// first). The ordering is a hard contract relied on by every
	// list-rendering caller.
	ListAll(ctx context.Context) ([]*core.Note, error)

	// Search returns notes whose title, text, or url contains the query
	// as a case-insensitive substring (OR across the three fields). An
	// empty query returns ListAll unchanged.
	Search(ctx context.Context, query string) ([]*core.Note, error)

	// Get retrieves a single note by id. Returns nil, nil if the note
	// doesn't exist. Does not hydrate images; use GetWithImages for that.
	Get(ctx context.Context, id string) (*core.Note, error)

	// GetWithImages retrieves a note and populates Images from the
	// BlobStore in stored index order when ImageIDs is non-empty. Images
	// is never nil on a returned note. Returns nil, nil if the note
	// doesn't exist.
	GetWithImages(ctx context.Context, id string) (*core.Note, error)

	// Save is the central write path. A note without an id is assigned a
	// fresh one and CreatedAt; UpdatedAt is always refreshed. Non-empty
	// inline Images are migrated into the BlobStore: ImageIDs is replaced
	// with the returned references and Images is cleared. Empty Images
	// with existing ImageIDs leaves the stored set untouched — callers
	// wanting to retain prior images alongside new uploads must merge
	// them into Images before calling Save. CreatedAt is immutable: on an
	// existing note the stored value wins.
	// Returns the note as persisted.
	Save(ctx context.Context, note *core.Note) (*core.Note, error)

	// Delete removes the note record, then deletes all associated blobs.
	// Deleting a nonexistent id is a no-op. Blob deletion failure leaves
	// recoverable orphans; the note record itself is already gone.
	Delete(ctx context.Context, id string) error

	// Clear removes every note record. Blobs are not touched; callers
	// clearing the whole store follow up with BlobStore.SweepOrphans.
	Clear(ctx context.Context) error

	// Close releases repository resources.
	Close() error
}

// BlobStore is a key/value store for large binary payloads, keyed by opaque
// id and indexed by owning note id for bulk lookup and delete. It performs
// no retries; backend errors propagate to the caller.
type BlobStore interface {
	// Put stores one payload durably and returns a fresh unique id.
	Put(ctx context.Context, data []byte, noteID string, index int) (core.BlobID, error)

	// PutMany stores the payloads sequentially; the returned ids preserve
	// input order.
	PutMany(ctx context.Context, dataList [][]byte, noteID string) ([]core.BlobID, error)

	// Get returns the stored payload, or nil, nil for a missing id.
	Get(ctx context.Context, id core.BlobID) ([]byte, error)

	// GetAllForNote returns all payloads for a note ordered by their
	// stored image index — the backend does not preserve order natively.
	GetAllForNote(ctx context.Context, noteID string) ([][]byte, error)

	// Delete removes one blob. Deleting a missing id is not an error.
	Delete(ctx context.Context, id core.BlobID) error

	// DeleteAllForNote removes every blob whose note id matches,
	// including ones added after the note's last save.
	DeleteAllForNote(ctx context.Context, noteID string) error

	// EstimateTotalSize sums the byte length of all stored payloads.
	// Approximate; used only for display.
	EstimateTotalSize(ctx context.Context) (int64, error)

	// SweepOrphans deletes every blob whose note id is not in the valid
	// set and returns the count removed. Maintenance operation, not a hot
	// path; an empty valid set removes everything.
	SweepOrphans(ctx context.Context, validNoteIDs []string) (int, error)

	// Close releases store resources.
	Close() error
}

// SettingsRepository persists the backup configuration record.
type SettingsRepository interface {
	// SaveSettings persists the backup settings.
	SaveSettings(ctx context.Context, settings *core.BackupSettings) error

	// LoadSettings retrieves the backup settings.
	// Returns nil, nil if none have been saved yet.
	LoadSettings(ctx context.Context) (*core.BackupSettings, error)
}
