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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPreview(t *testing.T) {
	var buf bytes.Buffer
	note := testNote("milk\neggs\n")

	require.NoError(t, RenderPreview(&buf, note, 200, testNow))

	preview := buf.String()
	assert.Contains(t, preview, "File:     groceries.txt\n")
	assert.Contains(t, preview, "Path:     /home/user/notes/2026/groceries.txt\n")
	assert.Contains(t, preview, "(3 hours ago)")
	assert.Contains(t, preview, "Size:     10 B\n")
	assert.Contains(t, preview, "Preview (first 200 characters):\n")
	assert.Contains(t, preview, previewRule+"\nmilk\neggs\n"+previewRule+"\n")
	assert.NotContains(t, preview, "...")
}

func TestRenderPreviewTruncates(t *testing.T) {
	var buf bytes.Buffer
	note := testNote("äöüß and more")

	require.NoError(t, RenderPreview(&buf, note, 4, testNow))
	assert.Contains(t, buf.String(), previewRule+"\näöüß...\n"+previewRule+"\n")
}

func TestRenderPreviewFullContent(t *testing.T) {
	var buf bytes.Buffer
	content := strings.Repeat("long line ", 100)

	require.NoError(t, RenderPreview(&buf, testNote(content), 0, testNow))
	assert.Contains(t, buf.String(), "Content:\n")
	assert.Contains(t, buf.String(), content+"\n"+previewRule)
	assert.NotContains(t, buf.String(), "...")
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		content   string
		length    int
		expected  string
		truncated bool
	}{
		{"", 10, "", false},
		{"short", 10, "short", false},
		{"exact", 5, "exact", false},
		{"longer", 3, "lon", true},
		{"日本語のメモ", 3, "日本語", true},
		{"anything", 0, "anything", false},
	}

	for _, test := range tests {
		actual, truncated := excerpt(test.content, test.length)
		assert.Equal(t, test.expected, actual, test.content)
		assert.Equal(t, test.truncated, truncated, test.content)
	}
}
