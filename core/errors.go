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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidNote indicates a Note failed validation.
	ErrInvalidNote = errors.New("invalid note")

	// ErrTitleTooLong indicates the Title field exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title too long")

	// ErrTextTooLong indicates the Text field exceeds MaxTextLength.
	ErrTextTooLong = errors.New("text too long")

	// ErrMalformedURL indicates the URL field does not parse.
	ErrMalformedURL = errors.New("malformed url")

	// ErrInvalidTimestamp indicates CreatedAt is later than UpdatedAt.
	ErrInvalidTimestamp = errors.New("created after updated")

	// ErrInvalidFrequency indicates an unknown backup frequency name.
	ErrInvalidFrequency = errors.New("invalid backup frequency")
)
