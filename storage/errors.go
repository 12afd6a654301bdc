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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	// Read paths absorb it into nil results; it surfaces only where a
	// caller explicitly requires existence.
	ErrNotFound = errors.New("record not found")

	// ErrQuotaExceeded indicates the backend rejected a write for size
	// reasons.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrBackendIO indicates an underlying persistence failure.
	ErrBackendIO = errors.New("storage backend failure")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization
	// failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
