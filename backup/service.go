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
	"time"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
)

// Service coordinates snapshot creation: it reads notes from the repository,
// encodes them, writes to the configured destination, and falls back to a
// download when the destination cannot be written.
type Service struct {
	notes    storage.NoteRepository
	blobs    storage.BlobStore
	settings storage.SettingsRepository
	dest     Destination
	fallback Fallback
	cloud    CloudUploader
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDestination sets the backup destination. When no destination is
// configured every backup goes straight to the fallback.
func WithDestination(dest Destination) Option {
	return func(s *Service) error {
		s.dest = dest
		return nil
	}
}

// WithFallback sets the sink used when the destination cannot be written.
func WithFallback(fb Fallback) Option {
	return func(s *Service) error {
		s.fallback = fb
		return nil
	}
}

// WithCloud sets the cloud uploader. Default is NopUploader.
func WithCloud(cloud CloudUploader) Option {
	return func(s *Service) error {
		if cloud == nil {
			cloud = NopUploader{}
		}
		s.cloud = cloud
		return nil
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewService creates a backup service over the given repositories.
func NewService(
	notes storage.NoteRepository,
	blobs storage.BlobStore,
	settings storage.SettingsRepository,
	opts ...Option,
) (*Service, error) {
	if notes == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if settings == nil {
		return nil, ErrSettingsRepositoryRequired
	}

	s := &Service{
		notes:    notes,
		blobs:    blobs,
		settings: settings,
		cloud:    NopUploader{},
		now:      time.Now,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Settings returns the persisted backup settings, or the defaults when none
// have been saved yet.
func (s *Service) Settings(ctx context.Context) (*core.BackupSettings, error) {
	cfg, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return core.DefaultBackupSettings(), nil
	}
	return cfg, nil
}

// Configure persists new backup settings. The frequency must parse.
func (s *Service) Configure(ctx context.Context, autoBackup bool, frequency string) error {
	freq, err := core.ParseBackupFrequency(frequency)
	if err != nil {
		return err
	}

	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.AutoBackup = autoBackup
	cfg.Frequency = freq
	return s.settings.SaveSettings(ctx, cfg)
}

// SetDestination changes the destination and records its name in the
// persisted settings.
func (s *Service) SetDestination(ctx context.Context, dest Destination) error {
	s.dest = dest

	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.DestinationPath = ""
	if dest != nil {
		cfg.DestinationPath = dest.Name()
	}
	return s.settings.SaveSettings(ctx, cfg)
}

// ShouldBackup reports whether an automatic backup is due under the
// persisted settings. Manual frequency and disabled auto-backup always
// report false. A daily or weekly frequency with no prior backup reports
// true.
func (s *Service) ShouldBackup(ctx context.Context) (bool, error) {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return false, err
	}
	if !cfg.AutoBackup {
		return false, nil
	}

	switch cfg.Frequency {
	case core.FrequencyEverySave:
		return true, nil
	case core.FrequencyDaily, core.FrequencyWeekly:
		if cfg.LastBackupAt.IsZero() {
			return true, nil
		}
		days := s.now().Sub(cfg.LastBackupAt).Hours() / 24
		if cfg.Frequency == core.FrequencyDaily {
			return days >= 1, nil
		}
		return days >= 7, nil
	default:
		return false, nil
	}
}

// CreateBackup builds a snapshot of every note and writes it out. When
// includeImages is set, each note's blobs are hydrated and embedded in the
// snapshot; otherwise notes carry only an image count.
//
// A destination that is missing or unwritable is not an error: the snapshot
// is offered to the fallback instead, and the returned descriptor says
// where it went. An error is returned only when neither path succeeds.
func (s *Service) CreateBackup(ctx context.Context, includeImages bool) (string, error) {
	data, name, err := s.buildSnapshot(ctx, includeImages)
	if err != nil {
		return "", err
	}

	descriptor, err := s.write(name, data)
	if err != nil {
		return "", err
	}

	if err := s.recordBackup(ctx); err != nil {
		s.logger.Warn("failed to record backup time", "error", err)
	}
	return descriptor, nil
}

// BackupToCloud encodes a snapshot and hands it to the cloud uploader. It
// is a no-op unless the persisted settings enable cloud backup. Upload
// failures are logged and swallowed.
func (s *Service) BackupToCloud(ctx context.Context, includeImages bool) {
	cfg, err := s.Settings(ctx)
	if err != nil {
		s.logger.Error("cloud backup: settings load failed", "error", err)
		return
	}
	if !cfg.CloudBackup {
		return
	}

	data, name, err := s.buildSnapshot(ctx, includeImages)
	if err != nil {
		s.logger.Error("cloud backup: snapshot failed", "error", err)
		return
	}
	if err := s.cloud.Upload(ctx, name, data); err != nil {
		s.logger.Error("cloud backup: upload failed", "error", err)
	}
}

func (s *Service) buildSnapshot(ctx context.Context, includeImages bool) (data []byte, name string, err error) {
	notes, err := s.notes.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportDate: s.now().UTC(),
		TotalNotes: len(notes),
		Notes:      make([]SnapshotNote, 0, len(notes)),
	}
	for _, n := range notes {
		if includeImages {
			hydrated, err := s.notes.GetWithImages(ctx, n.ID)
			if err != nil {
				return nil, "", err
			}
			images := n.Images
			if hydrated != nil {
				images = hydrated.Images
			}
			snap.Notes = append(snap.Notes, fullNote(n, images))
		} else {
			snap.Notes = append(snap.Notes, redactedNote(n))
		}
	}

	data, err = snap.Encode()
	if err != nil {
		return nil, "", err
	}
	name = "clipkeep-backup-" + s.now().Format("2006-01-02") + ".json"
	return data, name, nil
}

// write attempts the destination first, then the fallback.
func (s *Service) write(name string, data []byte) (string, error) {
	if s.dest != nil {
		if err := s.dest.EnsureWritable(); err != nil {
			s.logger.Warn("backup destination not writable, falling back",
				"destination", s.dest.Name(), "error", err)
		} else if err := s.writeToDest(name, data); err != nil {
			s.logger.Warn("backup destination write failed, falling back",
				"destination", s.dest.Name(), "error", err)
		} else {
			return fmt.Sprintf("saved to: %s", s.dest.Name()), nil
		}
	}

	if s.fallback == nil {
		return "", fmt.Errorf("%w: no writable destination and no fallback", ErrPermissionDenied)
	}
	location, err := s.fallback.Offer(name, data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("downloaded: %s", location), nil
}

func (s *Service) writeToDest(name string, data []byte) error {
	f, err := s.dest.CreateFile(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Service) recordBackup(ctx context.Context) error {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.LastBackupAt = s.now().UTC()
	return s.settings.SaveSettings(ctx, cfg)
}
