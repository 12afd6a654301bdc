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

// Package storage provides the storage abstraction layer for clipkeep.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	blobs, err := badger.NewBlobStore(backend)    // returns storage.BlobStore
//	notes, err := badger.NewNoteRepository(backend, blobs)
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - NoteRepository: CRUD + search over note records; owns the migration
//     policy that moves inline image payloads into the BlobStore
//   - BlobStore: key/value store for large binary payloads, indexed by
//     owning note id
//   - SettingsRepository: the persisted backup configuration record
//
// Note metadata and blob payloads live in separate key spaces with no
// shared transaction: note deletion removes the note record first and the
// blobs second, so a failure can only ever leave orphaned blobs (recovered
// by BlobStore.SweepOrphans), never a note whose blobs are gone.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. Note that concurrent writers to the same
// note race last-write-wins; the store is designed for a single logical
// writer.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
