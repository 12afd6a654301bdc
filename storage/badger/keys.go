package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/clipkeep/clipkeep/core"
)

// Key prefixes for different data types. Note records and blob records live
// under disjoint prefixes; they are separate storage areas with no shared
// transaction.
const (
	noteRecordPrefix      = "notrec"
	noteCreatedPrefix     = "notrecc"
	blobRecordPrefix      = "imgrec"
	blobNoteIndexPrefix   = "imgrecn"
	backupSettingsKeyName = "bakcfg"
)

// makeNoteKey generates a key for a note record by id.
func makeNoteKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", noteRecordPrefix, id))
}

// makeNoteCreatedKey generates a composite key for the created-at index.
// Format: prefix:timestamp:id. Timestamps are written in BigEndian order so
// lexicographic sort matches chronological order; a reverse iteration over
// the prefix yields newest-first.
func makeNoteCreatedKey(createdAt time.Time, id string) []byte {
	prefix := noteCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8+len(id))
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialNoteCreatedKey generates a partial key for seeking within the
// created-at index.
func makePartialNoteCreatedKey(createdAt time.Time) []byte {
	prefix := noteCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}

// makeBlobKey generates a key for a blob record by id.
func makeBlobKey(id core.BlobID) []byte {
	return []byte(fmt.Sprintf("%s:%s", blobRecordPrefix, id))
}

// makeBlobNoteKey generates a composite key for the blob-by-note index.
// Format: prefix, BigEndian note id length, note id, blob id. Note ids come
// from snapshots as well as our own UUID generator, so the length field
// keeps one note's index range from swallowing another's when an id is a
// prefix of a longer id.
func makeBlobNoteKey(noteID string, id core.BlobID) []byte {
	partial := makePartialBlobNoteKey(noteID)
	buf := make([]byte, len(partial)+len(id))
	offset := copy(buf, partial)
	copy(buf[offset:], id)
	return buf
}

// makePartialBlobNoteKey generates the index prefix for all blobs of a note.
// The embedded length makes the prefix exact: no other note id shares it.
func makePartialBlobNoteKey(noteID string) []byte {
	prefix := blobNoteIndexPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+4+len(noteID))
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint32(buf[offset:], uint32(len(noteID)))
	offset += 4
	copy(buf[offset:], noteID)
	return buf
}

// makeBackupSettingsKey generates the key for the backup settings record.
func makeBackupSettingsKey() []byte {
	return []byte(backupSettingsKeyName)
}
