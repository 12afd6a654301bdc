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

import "github.com/clipkeep/clipkeep/storage"

// NewMemoryStores creates an in-memory note repository and blob store for
// testing. Returns notes, blobs, backend, and error.
// Caller must close all three when done.
func NewMemoryStores() (storage.NoteRepository, storage.BlobStore, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	blobs, err := NewBlobStore(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	notes, err := NewNoteRepository(backend, blobs)
	if err != nil {
		blobs.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return notes, blobs, backend, nil
}
