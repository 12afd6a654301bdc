package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// BlobID is the identifier of a stored image payload. It is a composite of
// the owning note id, the image's index within the note, and a creation
// timestamp disambiguator, so ids stay unique even under rapid repeated
// saves of the same note.
type BlobID string

// NewBlobID builds a BlobID for an image belonging to noteID at the given
// position. The timestamp is kept at nanosecond resolution; coarser units
// could collide under back-to-back puts of the same (note, index) pair.
func NewBlobID(noteID string, index int, createdAt time.Time) BlobID {
	return BlobID(fmt.Sprintf("%s_%d_%d", noteID, index, createdAt.UnixNano()))
}

// NewNoteID generates a fresh note identifier.
func NewNoteID() string {
	return uuid.NewString()
}

// Fingerprint generates a deterministic 64-bit fingerprint of a note's
// (title, url) pair using BLAKE2b hashing. Identical pairs produce identical
// fingerprints; restore uses this for duplicate detection.
func Fingerprint(title, url string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(url))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Note represents one captured artifact: a piece of selected text, an image
// set, or a whole page clipped from the web.
//
// Images holds inline image payloads and is only populated transiently,
// before the save path migrates them into blob storage, or on legacy
// unmigrated records. ImageIDs holds the stored references; once it is
// populated for a note, Images is empty on the persisted record.
type Note struct {
	ID        string
	Title     string
	URL       string
	Text      string
	Images    [][]byte // inline payloads, pre-migration only
	ImageIDs  []BlobID
	Category  string
	Tags      []string
	CreatedAt time.Time // set on first save, immutable
	UpdatedAt time.Time // refreshed on every save
}

// ImageBlob is a stored binary image payload owned by a note.
type ImageBlob struct {
	ID         BlobID
	NoteID     string // back-reference used for bulk lookup and delete
	ImageIndex int    // position within the note's image sequence
	Data       []byte
	CreatedAt  time.Time
}

// BackupFrequency controls how often automatic backups run.
type BackupFrequency int

const (
	// FrequencyManual disables automatic backups entirely.
	FrequencyManual BackupFrequency = iota + 1
	// FrequencyEverySave backs up after every note mutation.
	FrequencyEverySave
	// FrequencyDaily backs up at most once per day.
	FrequencyDaily
	// FrequencyWeekly backs up at most once per week.
	FrequencyWeekly
)

// String returns the wire/CLI name of the frequency.
func (f BackupFrequency) String() string {
	switch f {
	case FrequencyManual:
		return "manual"
	case FrequencyEverySave:
		return "every-save"
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		return "weekly"
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}

// ParseBackupFrequency parses the wire/CLI name of a frequency.
func ParseBackupFrequency(s string) (BackupFrequency, error) {
	switch s {
	case "manual":
		return FrequencyManual, nil
	case "every-save":
		return FrequencyEverySave, nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// BackupSettings holds the persisted backup configuration.
type BackupSettings struct {
	AutoBackup      bool
	Frequency       BackupFrequency
	CloudBackup     bool
	LastBackupAt    time.Time // zero means no backup has ever run
	DestinationPath string    // empty means no destination configured
	UpdatedAt       time.Time
}

// DefaultBackupSettings returns the configuration used before the user has
// saved one: automatic backup off, every-save frequency once enabled.
func DefaultBackupSettings() *BackupSettings {
	return &BackupSettings{
		AutoBackup:  false,
		Frequency:   FrequencyEverySave,
		CloudBackup: false,
	}
}
