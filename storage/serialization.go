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

package storage

import (
	"fmt"

	"github.com/clipkeep/clipkeep/core"
)

// MarshalNoteID serializes a note id to bytes.
func MarshalNoteID(id string) []byte {
	buf := make([]byte, core.NoteIDMUS.Size(id))
	core.NoteIDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalNoteID deserializes a note id from bytes.
func UnmarshalNoteID(data []byte) (string, error) {
	id, _, err := core.NoteIDMUS.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalBlobID serializes a BlobID to bytes.
func MarshalBlobID(id core.BlobID) []byte {
	buf := make([]byte, core.BlobIDMUS.Size(id))
	core.BlobIDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalBlobID deserializes a BlobID from bytes.
func UnmarshalBlobID(data []byte) (core.BlobID, error) {
	id, _, err := core.BlobIDMUS.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalNote serializes a Note to bytes.
func MarshalNote(note *core.Note) []byte {
	buf := make([]byte, core.NoteMUS.Size(*note))
	core.NoteMUS.Marshal(*note, buf)
	return buf
}

// UnmarshalNote deserializes a Note from bytes.
func UnmarshalNote(data []byte) (*core.Note, error) {
	note, _, err := core.NoteMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &note, nil
}

// MarshalImageBlob serializes an ImageBlob to bytes.
func MarshalImageBlob(blob *core.ImageBlob) []byte {
	buf := make([]byte, core.ImageBlobMUS.Size(*blob))
	core.ImageBlobMUS.Marshal(*blob, buf)
	return buf
}

// UnmarshalImageBlob deserializes an ImageBlob from bytes.
func UnmarshalImageBlob(data []byte) (*core.ImageBlob, error) {
	blob, _, err := core.ImageBlobMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &blob, nil
}

// MarshalBackupSettings serializes BackupSettings to bytes.
func MarshalBackupSettings(settings *core.BackupSettings) []byte {
	buf := make([]byte, core.BackupSettingsMUS.Size(*settings))
	core.BackupSettingsMUS.Marshal(*settings, buf)
	return buf
}

// UnmarshalBackupSettings deserializes BackupSettings from bytes.
func UnmarshalBackupSettings(data []byte) (*core.BackupSettings, error) {
	settings, _, err := core.BackupSettingsMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &settings, nil
}
