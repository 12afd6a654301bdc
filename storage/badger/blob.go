package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
)

// BlobStore implements storage.BlobStore for BadgerDB.
type BlobStore struct {
	backend *Backend
}

var _ storage.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a new BlobStore.
func NewBlobStore(backend *Backend) (*BlobStore, error) {
	return &BlobStore{
		backend: backend,
	}, nil
}

// Close releases resources. BlobStore has no resources to release.
func (s *BlobStore) Close() error {
	return nil
}

// Put stores one payload and returns its fresh id.
func (s *BlobStore) Put(ctx context.Context, data []byte, noteID string, index int) (core.BlobID, error) {
	now := time.Now().UTC()
	blob := &core.ImageBlob{
		ID:         core.NewBlobID(noteID, index, now),
		NoteID:     noteID,
		ImageIndex: index,
		Data:       data,
		CreatedAt:  now.Truncate(time.Microsecond),
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeBlobKey(blob.ID), storage.MarshalImageBlob(blob)); err != nil {
			return err
		}
		if err := tx.Set(makeBlobNoteKey(noteID, blob.ID), storage.MarshalBlobID(blob.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", writeErr(err)
	}
	return blob.ID, nil
}

// PutMany stores the payloads sequentially, preserving input order in the
// returned id list.
func (s *BlobStore) PutMany(ctx context.Context, dataList [][]byte, noteID string) ([]core.BlobID, error) {
	ids := make([]core.BlobID, 0, len(dataList))
	for i, data := range dataList {
		id, err := s.Put(ctx, data, noteID, i)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get returns the stored payload, or nil for a missing id.
func (s *BlobStore) Get(ctx context.Context, id core.BlobID) ([]byte, error) {
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		blob, err := readBlob(tx, makeBlobKey(id))
		if err != nil {
			return err
		}
		if blob != nil {
			data = blob.Data
		}
		return nil
	}, false)
	return data, err
}

// GetAllForNote returns all payloads for a note ordered by their stored
// image index. Retrieval order from the index is not meaningful; the sort
// restores the note's sequence.
func (s *BlobStore) GetAllForNote(ctx context.Context, noteID string) ([][]byte, error) {
	blobs, err := s.readBlobsForNote(noteID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(blobs, func(a, b *core.ImageBlob) int {
		return a.ImageIndex - b.ImageIndex
	})

	data := make([][]byte, 0, len(blobs))
	for _, blob := range blobs {
		data = append(data, blob.Data)
	}
	return data, nil
}

// Delete removes one blob and its index entry. Deleting a missing id is a
// no-op.
func (s *BlobStore) Delete(ctx context.Context, id core.BlobID) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		blob, err := readBlob(tx, makeBlobKey(id))
		if err != nil {
			return err
		}
		if blob == nil {
			return nil
		}
		if err := tx.Delete(makeBlobNoteKey(blob.NoteID, blob.ID)); err != nil {
			return err
		}
		if err := tx.Delete(makeBlobKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return writeErr(err)
}

// DeleteAllForNote removes every blob whose note id matches, via the note
// index. This sweeps everything under the note's index prefix, including
// blobs written after the note's last save.
func (s *BlobStore) DeleteAllForNote(ctx context.Context, noteID string) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialBlobNoteKey(noteID)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		var ids []core.BlobID
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.BlobID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalBlobID(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			ids = append(ids, id)
		}
		iter.Close()

		for _, id := range ids {
			if err := tx.Delete(makeBlobNoteKey(noteID, id)); err != nil {
				return err
			}
			if err := tx.Delete(makeBlobKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	return writeErr(err)
}

// EstimateTotalSize sums the byte length of all stored payloads.
func (s *BlobStore) EstimateTotalSize(ctx context.Context) (int64, error) {
	var total int64
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(blobRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				blob, err := storage.UnmarshalImageBlob(val)
				if err != nil {
					return err
				}
				total += int64(len(blob.Data))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return total, err
}

// SweepOrphans deletes every blob whose note id is not in the valid set and
// returns the count removed. The sweep walks blob records rather than index
// keys so it also repairs blobs whose index entry is gone.
func (s *BlobStore) SweepOrphans(ctx context.Context, validNoteIDs []string) (int, error) {
	valid := make(map[string]bool, len(validNoteIDs))
	for _, id := range validNoteIDs {
		valid[id] = true
	}

	var removed int
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(blobRecordPrefix + ":")

		var orphans []*core.ImageBlob
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				blob, err := storage.UnmarshalImageBlob(val)
				if err != nil {
					return err
				}
				if !valid[blob.NoteID] {
					orphans = append(orphans, blob)
				}
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for _, blob := range orphans {
			if err := tx.Delete(makeBlobNoteKey(blob.NoteID, blob.ID)); err != nil {
				return err
			}
			if err := tx.Delete(makeBlobKey(blob.ID)); err != nil {
				return err
			}
			removed++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, writeErr(err)
	}
	return removed, nil
}

// readBlobsForNote collects the full blob records for a note via the index.
func (s *BlobStore) readBlobsForNote(noteID string) ([]*core.ImageBlob, error) {
	var blobs []*core.ImageBlob
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialBlobNoteKey(noteID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.BlobID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalBlobID(val)
				return err
			})
			if err != nil {
				return err
			}

			blob, err := readBlob(tx, makeBlobKey(id))
			if err != nil {
				return err
			}
			if blob != nil {
				blobs = append(blobs, blob)
			}
		}
		return nil
	}, false)
	return blobs, err
}

// readBlob reads a blob record from the transaction. Missing keys yield
// nil, nil.
func readBlob(tx *badger.Txn, key []byte) (*core.ImageBlob, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var blob *core.ImageBlob
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		blob, unmarshalErr = storage.UnmarshalImageBlob(val)
		return unmarshalErr
	})
	return blob, err
}
