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

package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/storage"
)

// SettingsRepository implements storage.SettingsRepository for BadgerDB.
type SettingsRepository struct {
	backend *Backend
}

var _ storage.SettingsRepository = (*SettingsRepository)(nil)

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(backend *Backend) *SettingsRepository {
	return &SettingsRepository{
		backend: backend,
	}
}

// SaveSettings persists the backup settings record.
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings *core.BackupSettings) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		settings.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		if err := tx.Set(makeBackupSettingsKey(), storage.MarshalBackupSettings(settings)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return writeErr(err)
}

// LoadSettings retrieves the backup settings record.
// Returns nil, nil if none have been saved.
func (r *SettingsRepository) LoadSettings(ctx context.Context) (*core.BackupSettings, error) {
	var settings *core.BackupSettings
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBackupSettingsKey())
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			settings, unmarshalErr = storage.UnmarshalBackupSettings(val)
			return unmarshalErr
		})
	}, false)

	return settings, err
}
