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

package clipkeep

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/clipkeep/clipkeep/backup"
	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
	"github.com/clipkeep/clipkeep/storage/badger"
)

// Notebook is the assembled note store: repositories over one Badger
// backend, plus the backup service and a small pool for detached
// auto-backup work.
type Notebook struct {
	backend  *badger.Backend
	notes    storage.NoteRepository
	blobs    storage.BlobStore
	settings storage.SettingsRepository
	backups  *backup.Service
	pool     *ants.Pool
	logger   *slog.Logger
}

// NotebookOption configures a Notebook.
type NotebookOption func(*notebookOptions)

type notebookOptions struct {
	destination backup.Destination
	fallback    backup.Fallback
	cloud       backup.CloudUploader
	logger      *slog.Logger
	inMemory    bool
}

// WithBackupDestination sets the backup destination.
func WithBackupDestination(dest backup.Destination) NotebookOption {
	return func(o *notebookOptions) {
		o.destination = dest
	}
}

// WithBackupFallback sets the sink used when the destination fails.
func WithBackupFallback(fb backup.Fallback) NotebookOption {
	return func(o *notebookOptions) {
		o.fallback = fb
	}
}

// WithCloudUploader sets the cloud uploader for cloud-enabled backups.
func WithCloudUploader(cloud backup.CloudUploader) NotebookOption {
	return func(o *notebookOptions) {
		o.cloud = cloud
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) NotebookOption {
	return func(o *notebookOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemory opens the backend in memory. Used by tests.
func WithInMemory() NotebookOption {
	return func(o *notebookOptions) {
		o.inMemory = true
	}
}

// Open assembles a Notebook over the database at filePath.
func Open(filePath string, opts ...NotebookOption) (*Notebook, error) {
	options := &notebookOptions{
		cloud:  backup.NopUploader{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	blobs, err := badger.NewBlobStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	notes, err := badger.NewNoteRepository(backend, blobs)
	if err != nil {
		blobs.Close()
		backend.Close()
		return nil, err
	}

	settings := badger.NewSettingsRepository(backend)

	backupOpts := []backup.Option{
		backup.WithLogger(options.logger),
		backup.WithCloud(options.cloud),
	}
	if options.destination != nil {
		backupOpts = append(backupOpts, backup.WithDestination(options.destination))
	}
	if options.fallback != nil {
		backupOpts = append(backupOpts, backup.WithFallback(options.fallback))
	}
	backups, err := backup.NewService(notes, blobs, settings, backupOpts...)
	if err != nil {
		notes.Close()
		blobs.Close()
		backend.Close()
		return nil, err
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		notes.Close()
		blobs.Close()
		backend.Close()
		return nil, err
	}

	return &Notebook{
		backend:  backend,
		notes:    notes,
		blobs:    blobs,
		settings: settings,
		backups:  backups,
		pool:     pool,
		logger:   options.logger,
	}, nil
}

// Close releases the worker pool and closes repositories and backend.
func (nb *Notebook) Close() error {
	nb.pool.Release()

	if err := nb.notes.Close(); err != nil {
		nb.logger.Error("error closing note repository", "err", err)
		return err
	}
	if err := nb.blobs.Close(); err != nil {
		nb.logger.Error("error closing blob store", "err", err)
		return err
	}
	if err := nb.backend.Close(); err != nil {
		nb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// SaveNote validates and persists a note, then triggers an automatic
// backup when one is due. Backup failures never surface to the caller.
func (nb *Notebook) SaveNote(ctx context.Context, note *core.Note) (*core.Note, error) {
	if err := core.ValidateNote(note); err != nil {
		return nil, err
	}
	saved, err := nb.notes.Save(ctx, note)
	if err != nil {
		return nil, err
	}
	nb.triggerAutoBackup(ctx)
	return saved, nil
}

// DeleteNote removes a note and its images, then triggers an automatic
// backup when one is due.
func (nb *Notebook) DeleteNote(ctx context.Context, id string) error {
	if err := nb.notes.Delete(ctx, id); err != nil {
		return err
	}
	nb.triggerAutoBackup(ctx)
	return nil
}

// SweepOrphans removes image blobs whose owning note no longer exists and
// returns the number removed.
func (nb *Notebook) SweepOrphans(ctx context.Context) (int, error) {
	notes, err := nb.notes.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	validIDs := make([]string, len(notes))
	for i, n := range notes {
		validIDs[i] = n.ID
	}
	return nb.blobs.SweepOrphans(ctx, validIDs)
}

// triggerAutoBackup submits a backup to the pool when the persisted
// settings say one is due. The work is detached from the caller: the pool
// is nonblocking, so a backup already in flight means this one is skipped
// rather than queued behind it.
func (nb *Notebook) triggerAutoBackup(ctx context.Context) {
	due, err := nb.backups.ShouldBackup(ctx)
	if err != nil {
		nb.logger.Warn("auto backup check failed", "error", err)
		return
	}
	if !due {
		return
	}

	err = nb.pool.Submit(func() {
		ctx := context.Background()
		if _, err := nb.backups.CreateBackup(ctx, false); err != nil {
			nb.logger.Error("auto backup failed", "error", err)
			return
		}
		nb.backups.BackupToCloud(ctx, false)
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		nb.logger.Debug("auto backup already in flight, skipping")
		return
	}
	if err != nil {
		nb.logger.Warn("auto backup not scheduled", "error", err)
	}
}

// NoteRepository exposes direct repository access.
func (nb *Notebook) NoteRepository() storage.NoteRepository {
	return nb.notes
}

// BlobStore exposes direct blob store access.
func (nb *Notebook) BlobStore() storage.BlobStore {
	return nb.blobs
}

// SettingsRepository exposes direct settings access.
func (nb *Notebook) SettingsRepository() storage.SettingsRepository {
	return nb.settings
}

// BackupService returns the assembled backup service.
func (nb *Notebook) BackupService() *backup.Service {
	return nb.backups
}

// NewRestorer builds a restorer over the notebook's repositories.
func (nb *Notebook) NewRestorer() (*backup.Restorer, error) {
	return backup.NewRestorer(nb.notes, nb.blobs, nb.logger)
}
