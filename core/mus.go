package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the storage layer. The storage package wraps these in
// Marshal*/Unmarshal* helpers; nothing else should use them directly.
var (
	// NoteIDMUS serializes note id strings used as index values.
	NoteIDMUS = ord.String
	// BlobIDMUS serializes BlobID values.
	BlobIDMUS = blobIDSer{}
	// NoteMUS serializes Note values.
	NoteMUS = noteSer{}
	// ImageBlobMUS serializes ImageBlob values.
	ImageBlobMUS = imageBlobSer{}
	// BackupSettingsMUS serializes BackupSettings values.
	BackupSettingsMUS = backupSettingsSer{}
)

var (
	bytesMUS   = ord.NewSliceSer[byte](varint.Byte)
	imagesMUS  = ord.NewSliceSer[[]byte](bytesMUS)
	tagsMUS    = ord.NewSliceSer[string](ord.String)
	blobIDsMUS = ord.NewSliceSer[BlobID](BlobIDMUS)
	timeMUS    = timeSer{}
	freqMUS    = freqSer{}
)

// timeSer encodes times as Unix microseconds. The zero time is encoded as 0
// and restored as the zero value, so "never" timestamps survive round trips.
type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	if t.IsZero() {
		return varint.Int64.Marshal(0, bs)
	}
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || us == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	if t.IsZero() {
		return varint.Int64.Size(0)
	}
	return varint.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type freqSer struct{}

func (freqSer) Marshal(f BackupFrequency, bs []byte) int {
	return varint.Int.Marshal(int(f), bs)
}

func (freqSer) Unmarshal(bs []byte) (BackupFrequency, int, error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return BackupFrequency(v), n, err
}

func (freqSer) Size(f BackupFrequency) int {
	return varint.Int.Size(int(f))
}

func (freqSer) Skip(bs []byte) (int, error) {
	return varint.Int.Skip(bs)
}

type blobIDSer struct{}

func (blobIDSer) Marshal(id BlobID, bs []byte) int {
	return ord.String.Marshal(string(id), bs)
}

func (blobIDSer) Unmarshal(bs []byte) (BlobID, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return BlobID(s), n, err
}

func (blobIDSer) Size(id BlobID) int {
	return ord.String.Size(string(id))
}

func (blobIDSer) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

type noteSer struct{}

func (noteSer) Marshal(v Note, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += imagesMUS.Marshal(v.Images, bs[n:])
	n += blobIDsMUS.Marshal(v.ImageIDs, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += tagsMUS.Marshal(v.Tags, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (noteSer) Unmarshal(bs []byte) (v Note, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Images, n1, err = imagesMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ImageIDs, n1, err = blobIDsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = tagsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (noteSer) Size(v Note) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.URL)
	size += ord.String.Size(v.Text)
	size += imagesMUS.Size(v.Images)
	size += blobIDsMUS.Size(v.ImageIDs)
	size += ord.String.Size(v.Category)
	size += tagsMUS.Size(v.Tags)
	size += timeMUS.Size(v.CreatedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return
}

func (noteSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	if n1, err = imagesMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = blobIDsMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = tagsMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = timeMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return
}

type imageBlobSer struct{}

func (imageBlobSer) Marshal(v ImageBlob, bs []byte) (n int) {
	n = BlobIDMUS.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.NoteID, bs[n:])
	n += varint.Int.Marshal(v.ImageIndex, bs[n:])
	n += bytesMUS.Marshal(v.Data, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return
}

func (imageBlobSer) Unmarshal(bs []byte) (v ImageBlob, n int, err error) {
	var n1 int
	v.ID, n, err = BlobIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.NoteID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ImageIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Data, n1, err = bytesMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (imageBlobSer) Size(v ImageBlob) (size int) {
	size = BlobIDMUS.Size(v.ID)
	size += ord.String.Size(v.NoteID)
	size += varint.Int.Size(v.ImageIndex)
	size += bytesMUS.Size(v.Data)
	size += timeMUS.Size(v.CreatedAt)
	return
}

func (imageBlobSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = BlobIDMUS.Skip(bs); err != nil {
		return
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = bytesMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return
}

type backupSettingsSer struct{}

func (backupSettingsSer) Marshal(v BackupSettings, bs []byte) (n int) {
	n = ord.Bool.Marshal(v.AutoBackup, bs)
	n += freqMUS.Marshal(v.Frequency, bs[n:])
	n += ord.Bool.Marshal(v.CloudBackup, bs[n:])
	n += timeMUS.Marshal(v.LastBackupAt, bs[n:])
	n += ord.String.Marshal(v.DestinationPath, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (backupSettingsSer) Unmarshal(bs []byte) (v BackupSettings, n int, err error) {
	var n1 int
	v.AutoBackup, n, err = ord.Bool.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Frequency, n1, err = freqMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CloudBackup, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LastBackupAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DestinationPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (backupSettingsSer) Size(v BackupSettings) (size int) {
	size = ord.Bool.Size(v.AutoBackup)
	size += freqMUS.Size(v.Frequency)
	size += ord.Bool.Size(v.CloudBackup)
	size += timeMUS.Size(v.LastBackupAt)
	size += ord.String.Size(v.DestinationPath)
	size += timeMUS.Size(v.UpdatedAt)
	return
}

func (backupSettingsSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.Bool.Skip(bs); err != nil {
		return
	}
	if n1, err = freqMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = ord.Bool.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = timeMUS.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return
	}
	n += n1
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return
}
