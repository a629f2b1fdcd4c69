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

package delivery

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lukasdietrich/notemail/internal/notes"
)

const (
	previewRule       = "--------------------------------------------------"
	previewTimeLayout = "2006-01-02 15:04:05"
)

// RenderPreview writes a human readable summary of the note. At most length runes of the content
// are shown, a length of 0 shows the full content.
func RenderPreview(w io.Writer, note *notes.Note, length int, now time.Time) error {
	excerpt, truncated := excerpt(note.Content, length)

	var b strings.Builder

	fmt.Fprintln(&b, "Latest note:")
	fmt.Fprintf(&b, "  File:     %s\n", note.Name())
	fmt.Fprintf(&b, "  Path:     %s\n", note.Path)
	fmt.Fprintf(&b, "  Modified: %s (%s)\n",
		note.ModTime.Local().Format(previewTimeLayout),
		humanize.RelTime(note.ModTime, now, "ago", "from now"))
	fmt.Fprintf(&b, "  Size:     %s\n", humanize.Bytes(uint64(note.Size)))
	fmt.Fprintln(&b)

	if length > 0 {
		fmt.Fprintf(&b, "Preview (first %d characters):\n", length)
	} else {
		fmt.Fprintln(&b, "Content:")
	}

	fmt.Fprintln(&b, previewRule)
	b.WriteString(excerpt)

	if truncated {
		b.WriteString("...")
	}

	if !strings.HasSuffix(excerpt, "\n") || truncated {
		b.WriteString("\n")
	}

	fmt.Fprintln(&b, previewRule)

	_, err := io.WriteString(w, b.String())
	return err
}

// excerpt cuts content after length runes.
func excerpt(content string, length int) (string, bool) {
	if length <= 0 {
		return content, false
	}

	n := 0
	for i := range content {
		if n == length {
			return content[:i], true
		}

		n++
	}

	return content, false
}
