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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lukasdietrich/notemail/internal/models"
	"github.com/lukasdietrich/notemail/internal/notes"
)

var testNow = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

func testNote(content string) *notes.Note {
	return &notes.Note{
		Candidate: notes.Candidate{
			Path:    "/home/user/notes/2026/groceries.txt",
			ModTime: testNow.Add(-3 * time.Hour),
			Size:    int64(len(content)),
		},
		Content: content,
	}
}

func testAddress(t *testing.T, raw string) models.Address {
	addr, err := models.Parse(raw)
	require.NoError(t, err)
	return addr
}

func testMessageOptions(t *testing.T) MessageOptions {
	return MessageOptions{
		From:          testAddress(t, "me@example.com"),
		To:            testAddress(t, "inbox@example.org"),
		SubjectPrefix: "Note: ",
	}
}
