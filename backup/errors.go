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

import "errors"

var (
	// ErrNoteRepositoryRequired is returned when a note repository is not provided.
	ErrNoteRepositoryRequired = errors.New("note repository required")

	// ErrBlobStoreRequired is returned when a blob store is not provided.
	ErrBlobStoreRequired = errors.New("blob store required")

	// ErrSettingsRepositoryRequired is returned when a settings repository is not provided.
	ErrSettingsRepositoryRequired = errors.New("settings repository required")

	// ErrPermissionDenied indicates the backup destination no longer
	// grants write access. Treated the same as a missing destination:
	// the backup falls back to a downloadable artifact.
	ErrPermissionDenied = errors.New("backup destination permission denied")

	// ErrInvalidSnapshot indicates a snapshot lacking a well-formed notes
	// sequence. Rejected before any note is touched.
	ErrInvalidSnapshot = errors.New("invalid snapshot format")

	// ErrUnknownRestoreMode indicates a restore mode other than merge or
	// replace.
	ErrUnknownRestoreMode = errors.New("unknown restore mode")
)
