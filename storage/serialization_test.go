package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipkeep/clipkeep/core"
)

func TestMarshalUnmarshalNote(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		note *core.Note
	}{
		{
			name: "minimal note",
			note: &core.Note{
				ID:        "note-1",
				Title:     "Hello",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "note with everything",
			note: &core.Note{
				ID:        "note-2",
				Title:     "A full clip",
				URL:       "https://example.com/page",
				Text:      "Selected text with unicode: héllo wörld",
				ImageIDs:  []core.BlobID{"note-2_0_1", "note-2_1_2"},
				Category:  "research",
				Tags:      []string{"go", "storage"},
				CreatedAt: now.Add(-time.Hour),
				UpdatedAt: now,
			},
		},
		{
			name: "unmigrated note with inline images",
			note: &core.Note{
				ID:        "note-3",
				Title:     "Screenshots",
				Images:    [][]byte{{0xff, 0xd8, 0xff}, {0x89, 0x50, 0x4e, 0x47}},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "note with zero timestamps",
			note: &core.Note{
				ID:    "note-4",
				Title: "Imported without times",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalNote(tt.note)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalNote(data)
			require.NoError(t, err)
			assert.Equal(t, tt.note.ID, decoded.ID)
			assert.Equal(t, tt.note.Title, decoded.Title)
			assert.Equal(t, tt.note.URL, decoded.URL)
			assert.Equal(t, tt.note.Text, decoded.Text)
			assert.Equal(t, tt.note.Category, decoded.Category)
			if len(tt.note.Images) == 0 {
				assert.Empty(t, decoded.Images)
			} else {
				assert.Equal(t, tt.note.Images, decoded.Images)
			}
			if len(tt.note.ImageIDs) == 0 {
				assert.Empty(t, decoded.ImageIDs)
			} else {
				assert.Equal(t, tt.note.ImageIDs, decoded.ImageIDs)
			}
			if len(tt.note.Tags) == 0 {
				assert.Empty(t, decoded.Tags)
			} else {
				assert.Equal(t, tt.note.Tags, decoded.Tags)
			}
			assert.True(t, tt.note.CreatedAt.Equal(decoded.CreatedAt),
				"CreatedAt: want %v, got %v", tt.note.CreatedAt, decoded.CreatedAt)
			assert.True(t, tt.note.UpdatedAt.Equal(decoded.UpdatedAt),
				"UpdatedAt: want %v, got %v", tt.note.UpdatedAt, decoded.UpdatedAt)
		})
	}
}

func TestMarshalNote_Deterministic(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	note := &core.Note{
		ID:        "note-1",
		Title:     "Stable",
		Text:      "Same bytes every time",
		ImageIDs:  []core.BlobID{"note-1_0_1"},
		Tags:      []string{"a", "b"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	first := MarshalNote(note)

	decoded, err := UnmarshalNote(first)
	require.NoError(t, err)
	second := MarshalNote(decoded)

	assert.Equal(t, first, second, "marshal-unmarshal-marshal must be byte stable")
}

func TestUnmarshalNote_Invalid(t *testing.T) {
	_, err := UnmarshalNote([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalImageBlob(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	blob := &core.ImageBlob{
		ID:         core.NewBlobID("note-1", 0, now),
		NoteID:     "note-1",
		ImageIndex: 0,
		Data:       []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a},
		CreatedAt:  now,
	}

	data := MarshalImageBlob(blob)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalImageBlob(data)
	require.NoError(t, err)
	assert.Equal(t, blob.ID, decoded.ID)
	assert.Equal(t, blob.NoteID, decoded.NoteID)
	assert.Equal(t, blob.ImageIndex, decoded.ImageIndex)
	assert.Equal(t, blob.Data, decoded.Data)
	assert.True(t, blob.CreatedAt.Equal(decoded.CreatedAt))
}

func TestMarshalUnmarshalBackupSettings(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name     string
		settings *core.BackupSettings
	}{
		{
			name:     "defaults",
			settings: core.DefaultBackupSettings(),
		},
		{
			name: "configured",
			settings: &core.BackupSettings{
				AutoBackup:      true,
				Frequency:       core.FrequencyWeekly,
				CloudBackup:     true,
				LastBackupAt:    now,
				DestinationPath: "/backups/clipkeep",
				UpdatedAt:       now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalBackupSettings(tt.settings)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalBackupSettings(data)
			require.NoError(t, err)
			assert.Equal(t, tt.settings.AutoBackup, decoded.AutoBackup)
			assert.Equal(t, tt.settings.Frequency, decoded.Frequency)
			assert.Equal(t, tt.settings.CloudBackup, decoded.CloudBackup)
			assert.Equal(t, tt.settings.DestinationPath, decoded.DestinationPath)
			assert.True(t, tt.settings.LastBackupAt.Equal(decoded.LastBackupAt),
				"LastBackupAt: want %v, got %v", tt.settings.LastBackupAt, decoded.LastBackupAt)
		})
	}
}

func TestMarshalUnmarshalBlobID(t *testing.T) {
	id := core.BlobID("note-1_0_1748779200000000")
	decoded, err := UnmarshalBlobID(MarshalBlobID(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}
