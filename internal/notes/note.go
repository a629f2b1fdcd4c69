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
	"path/filepath"
	"sort"
	"time"
)

// Candidate is a file below the notes root, that matches the note pattern.
type Candidate struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Name returns the base name of the file.
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// Note is the selected candidate together with its text content.
type Note struct {
	Candidate
	Content string
}

// newest reduces the candidates to the one modified last. Candidates are ordered by path first, so
// that equal modification times always resolve to the smallest path.
func newest(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		return filepath.ToSlash(sorted[i].Path) < filepath.ToSlash(sorted[j].Path)
	})

	selected := sorted[0]
	for _, candidate := range sorted[1:] {
		if candidate.ModTime.After(selected.ModTime) {
			selected = candidate
		}
	}

	return selected, true
}
