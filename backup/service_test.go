package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
	"github.com/clipkeep/clipkeep/storage/badger"
)

func newTestStores(t *testing.T) (storage.NoteRepository, storage.BlobStore, storage.SettingsRepository) {
	t.Helper()
	notes, blobs, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		notes.Close()
		blobs.Close()
		backend.Close()
	})
	return notes, blobs, badger.NewSettingsRepository(backend)
}

// deniedDestination always refuses writes.
type deniedDestination struct{}

func (deniedDestination) Name() string { return "revoked-folder" }
func (deniedDestination) EnsureWritable() error {
	return ErrPermissionDenied
}
func (deniedDestination) CreateFile(name string) (io.WriteCloser, error) {
	return nil, ErrPermissionDenied
}

// recordingFallback captures offered snapshots.
type recordingFallback struct {
	name string
	data []byte
}

func (f *recordingFallback) Offer(name string, data []byte) (string, error) {
	f.name = name
	f.data = data
	return "/downloads/" + name, nil
}

func TestNewService_RequiredDeps(t *testing.T) {
	notes, blobs, settings := newTestStores(t)

	_, err := NewService(nil, blobs, settings)
	assert.ErrorIs(t, err, ErrNoteRepositoryRequired)

	_, err = NewService(notes, nil, settings)
	assert.ErrorIs(t, err, ErrBlobStoreRequired)

	_, err = NewService(notes, blobs, nil)
	assert.ErrorIs(t, err, ErrSettingsRepositoryRequired)
}

func TestShouldBackup(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  core.BackupSettings
		want bool
	}{
		{
			name: "auto backup disabled",
			cfg:  core.BackupSettings{AutoBackup: false, Frequency: core.FrequencyEverySave},
			want: false,
		},
		{
			name: "manual frequency never fires",
			cfg:  core.BackupSettings{AutoBackup: true, Frequency: core.FrequencyManual},
			want: false,
		},
		{
			name: "every save always fires",
			cfg:  core.BackupSettings{AutoBackup: true, Frequency: core.FrequencyEverySave},
			want: true,
		},
		{
			name: "daily with no prior backup fires",
			cfg:  core.BackupSettings{AutoBackup: true, Frequency: core.FrequencyDaily},
			want: true,
		},
		{
			name: "daily within a day does not fire",
			cfg: core.BackupSettings{
				AutoBackup: true, Frequency: core.FrequencyDaily,
				LastBackupAt: now.Add(-23 * time.Hour),
			},
			want: false,
		},
		{
			name: "daily past a day fires",
			cfg: core.BackupSettings{
				AutoBackup: true, Frequency: core.FrequencyDaily,
				LastBackupAt: now.Add(-25 * time.Hour),
			},
			want: true,
		},
		{
			name: "weekly within a week does not fire",
			cfg: core.BackupSettings{
				AutoBackup: true, Frequency: core.FrequencyWeekly,
				LastBackupAt: now.Add(-6 * 24 * time.Hour),
			},
			want: false,
		},
		{
			name: "weekly past a week fires",
			cfg: core.BackupSettings{
				AutoBackup: true, Frequency: core.FrequencyWeekly,
				LastBackupAt: now.Add(-8 * 24 * time.Hour),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, blobs, settings := newTestStores(t)
			svc, err := NewService(notes, blobs, settings,
				WithClock(func() time.Time { return now }))
			require.NoError(t, err)

			ctx := context.Background()
			cfg := tt.cfg
			require.NoError(t, settings.SaveSettings(ctx, &cfg))

			due, err := svc.ShouldBackup(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, due)
		})
	}
}

func TestShouldBackup_DefaultSettings(t *testing.T) {
	notes, blobs, settings := newTestStores(t)
	svc, err := NewService(notes, blobs, settings)
	require.NoError(t, err)

	// No settings saved yet: defaults disable auto backup.
	due, err := svc.ShouldBackup(context.Background())
	require.NoError(t, err)
	assert.False(t, due)
}

func TestCreateBackup_WritesToDestination(t *testing.T) {
	notes, blobs, settings := newTestStores(t)
	ctx := context.Background()

	_, err := notes.Save(ctx, &core.Note{Title: "kept", Text: "payload"})
	require.NoError(t, err)

	dest := NewDirDestination(t.TempDir())
	svc, err := NewService(notes, blobs, settings, WithDestination(dest))
	require.NoError(t, err)

	descriptor, err := svc.CreateBackup(ctx, false)
	require.NoError(t, err)
	assert.Contains(t, descriptor, "saved to:")
	assert.Contains(t, descriptor, dest.Name())

	// Success records the backup time.
	cfg, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.LastBackupAt.IsZero())
}

func TestCreateBackup_FallsBackWhenDenied(t *testing.T) {
	notes, blobs, settings := newTestStores(t)
	ctx := context.Background()

	_, err := notes.Save(ctx, &core.Note{Title: "note one"})
	require.NoError(t, err)

	fb := &recordingFallback{}
	svc, err := NewService(notes, blobs, settings,
		WithDestination(deniedDestination{}),
		WithFallback(fb))
	require.NoError(t, err)

	descriptor, err := svc.CreateBackup(ctx, false)
	require.NoError(t, err, "denied destination must not fail the backup")
	assert.Contains(t, descriptor, "downloaded:")
	require.NotEmpty(t, fb.data)

	// The offered payload is a valid snapshot.
	snap, err := ParseSnapshot(fb.data)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalNotes)
	assert.Equal(t, "note one", snap.Notes[0].Title)
}

func TestCreateBackup_NoDestinationNoFallback(t *testing.T) {
	notes, blobs, settings := newTestStores(t)

	svc, err := NewService(notes, blobs, settings)
	require.NoError(t, err)

	_, err = svc.CreateBackup(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestCreateBackup_ImageHandling(t *testing.T) {
	notes, blobs, settings := newTestStores(t)
	ctx := context.Background()

	_, err := notes.Save(ctx, &core.Note{
		Title:  "with pictures",
		Images: [][]byte{{0x01, 0x02}, {0x03}},
	})
	require.NoError(t, err)

	fb := &recordingFallback{}
	svc, err := NewService(notes, blobs, settings, WithFallback(fb))
	require.NoError(t, err)

	t.Run("redacted by default", func(t *testing.T) {
		_, err := svc.CreateBackup(ctx, false)
		require.NoError(t, err)

		snap, err := ParseSnapshot(fb.data)
		require.NoError(t, err)
		require.Len(t, snap.Notes, 1)
		assert.Empty(t, snap.Notes[0].Images)
		assert.Equal(t, 2, snap.Notes[0].ImageCount)
	})

	t.Run("full with include images", func(t *testing.T) {
		_, err := svc.CreateBackup(ctx, true)
		require.NoError(t, err)

		snap, err := ParseSnapshot(fb.data)
		require.NoError(t, err)
		require.Len(t, snap.Notes, 1)
		require.Len(t, snap.Notes[0].Images, 2)
		assert.Equal(t, []byte{0x01, 0x02}, snap.Notes[0].Images[0])
	})
}

func TestConfigure(t *testing.T) {
	notes, blobs, settings := newTestStores(t)
	svc, err := NewService(notes, blobs, settings)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, svc.Configure(ctx, true, "weekly"))

	cfg, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.AutoBackup)
	assert.Equal(t, core.FrequencyWeekly, cfg.Frequency)

	err = svc.Configure(ctx, true, "hourly")
	assert.ErrorIs(t, err, core.ErrInvalidFrequency)
}

func TestSnapshotFilenameCarriesDate(t *testing.T) {
	notes, blobs, settings := newTestStores(t)

	fb := &recordingFallback{}
	fixed := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	svc, err := NewService(notes, blobs, settings,
		WithFallback(fb),
		WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	_, err = svc.CreateBackup(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "clipkeep-backup-2025-03-09.json", fb.name)

	// The payload is indented JSON with the versioned envelope.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(fb.data, &raw))
	assert.Equal(t, SnapshotVersion, raw["version"])
}
