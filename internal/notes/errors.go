// Copyright (C) 2026  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryMissing is returned when the notes root does not exist or is not a directory.
	ErrDirectoryMissing = errors.New("notes directory missing")

	// ErrNoNotes is returned when the notes root contains no matching file. This is the normal
	// empty state and not a failure of the resolver itself.
	ErrNoNotes = errors.New("no notes found")

	// ErrInvalidEncoding is used when the selected note is not valid utf-8.
	ErrInvalidEncoding = errors.New("not valid utf-8 text")

	// ErrEmpty is used when the selected note has no content.
	ErrEmpty = errors.New("note is empty")
)

// UnreadableError is returned when the selected note cannot be read or decoded. There is no
// fallback to another candidate.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("note %q unreadable: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}
