package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
)

// NoteRepository implements storage.NoteRepository for BadgerDB. Image
// persistence is delegated to the BlobStore; callers never touch blobs
// directly.
type NoteRepository struct {
	backend *Backend
	blobs   storage.BlobStore
}

var _ storage.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a new NoteRepository backed by the given blob
// store.
func NewNoteRepository(backend *Backend, blobs storage.BlobStore) (*NoteRepository, error) {
	return &NoteRepository{
		backend: backend,
		blobs:   blobs,
	}, nil
}

// Close releases resources. NoteRepository has no resources to release.
func (r *NoteRepository) Close() error {
	return nil
}

// ListAll returns every note, newest first. It walks the created-at index
// in reverse so the ordering comes from the key layout, not a post-sort.
func (r *NoteRepository) ListAll(ctx context.Context) ([]*core.Note, error) {
	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key within the created-at index.
		startKey := makePartialNoteCreatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(noteCreatedPrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix) {
				break
			}

			var noteID string
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				noteID, err = storage.UnmarshalNoteID(val)
				return err
			}); err != nil {
				return err
			}

			note, err := readNote(tx, makeNoteKey(noteID))
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)
	return results, err
}

// Search filters ListAll by a case-insensitive substring match against
// title, text, and url. An empty query returns ListAll unchanged.
func (r *NoteRepository) Search(ctx context.Context, query string) ([]*core.Note, error) {
	notes, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return notes, nil
	}

	lower := strings.ToLower(query)
	matched := make([]*core.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), lower) ||
			strings.Contains(strings.ToLower(note.Text), lower) ||
			strings.Contains(strings.ToLower(note.URL), lower) {
			matched = append(matched, note)
		}
	}
	return matched, nil
}

// Get retrieves a single note by id. Missing notes yield nil, nil.
func (r *NoteRepository) Get(ctx context.Context, id string) (*core.Note, error) {
	var note *core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		note, err = readNote(tx, makeNoteKey(id))
		return err
	}, false)
	return note, err
}

// GetWithImages retrieves a note and hydrates its image payloads.
func (r *NoteRepository) GetWithImages(ctx context.Context, id string) (*core.Note, error) {
	note, err := r.Get(ctx, id)
	if err != nil || note == nil {
		return nil, err
	}

	if len(note.ImageIDs) > 0 {
		images, err := r.blobs.GetAllForNote(ctx, id)
		if err != nil {
			return nil, err
		}
		note.Images = images
	}
	if note.Images == nil {
		note.Images = [][]byte{}
	}
	return note, nil
}

// Save is the central write path: id/timestamp assignment, inline image
// migration, then an upsert of the note record.
//
// Inline payloads are migrated before the note record is written, so a
// record never references blobs that don't exist. The reverse window — blob
// writes succeeded, note write failed — leaves orphaned blobs, recovered by
// BlobStore.SweepOrphans.
func (r *NoteRepository) Save(ctx context.Context, note *core.Note) (*core.Note, error) {
	// Truncate to the serialized precision so the returned note matches
	// what a later read observes.
	now := time.Now().UTC().Truncate(time.Microsecond)
	if note.ID == "" {
		note.ID = core.NewNoteID()
		note.CreatedAt = now
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	} else {
		note.CreatedAt = note.CreatedAt.Truncate(time.Microsecond)
	}
	note.UpdatedAt = now
	note.Tags = core.NormalizeTags(note.Tags)

	// Migration: non-empty inline images replace the stored reference set.
	// Empty inline images leave existing ImageIDs untouched.
	if len(note.Images) > 0 {
		ids, err := r.blobs.PutMany(ctx, note.Images, note.ID)
		if err != nil {
			return nil, err
		}
		note.ImageIDs = ids
		note.Images = [][]byte{}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readNote(tx, makeNoteKey(note.ID))
		if err != nil {
			return err
		}
		if old != nil {
			// CreatedAt is immutable; the stored value wins. The index
			// entry therefore never moves on update.
			note.CreatedAt = old.CreatedAt
			if len(note.ImageIDs) == 0 {
				note.ImageIDs = old.ImageIDs
			}
		}

		if err := tx.Set(makeNoteKey(note.ID), storage.MarshalNote(note)); err != nil {
			return err
		}
		if old == nil {
			createdKey := makeNoteCreatedKey(note.CreatedAt, note.ID)
			if err := tx.Set(createdKey, storage.MarshalNoteID(note.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, writeErr(err)
	}
	return note, nil
}

// Delete removes the note record first, then its blobs. A nonexistent id is
// a no-op. Blob deletion failure leaves orphans (recoverable); the note is
// already gone, so no reader can observe a note without its blobs.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	existed := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		note, err := readNote(tx, makeNoteKey(id))
		if err != nil {
			return err
		}
		if note == nil {
			return nil
		}
		existed = true

		if err := tx.Delete(makeNoteCreatedKey(note.CreatedAt, note.ID)); err != nil {
			return err
		}
		if err := tx.Delete(makeNoteKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return writeErr(err)
	}
	if !existed {
		return nil
	}
	return r.blobs.DeleteAllForNote(ctx, id)
}

// Clear removes every note record and index entry. Blob cleanup is the
// caller's follow-up via BlobStore.SweepOrphans.
func (r *NoteRepository) Clear(ctx context.Context) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range [][]byte{
			[]byte(noteRecordPrefix + ":"),
			[]byte(noteCreatedPrefix + ":"),
		} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false

			var keys [][]byte
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
			iter.Close()

			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	return writeErr(err)
}

// readNote reads a note record from the transaction. Missing keys yield
// nil, nil.
func readNote(tx *badger.Txn, key []byte) (*core.Note, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var note *core.Note
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		note, unmarshalErr = storage.UnmarshalNote(val)
		return unmarshalErr
	})
	return note, err
}
