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

package models

import (
	"bytes"
	"io"
	"time"
)

// Envelope is a fully composed outgoing mail. It is created once right before sending and must
// not be changed afterwards.
type Envelope struct {
	// From is the sender and the return-path.
	From Address
	// To is the single recipient.
	To Address
	// Subject is the decoded subject line.
	Subject string
	// Date is the time of composition.
	Date time.Time
	// Body is the plain text content, exactly as read from the note.
	Body string
	// Data is the complete RFC#5322 message including headers.
	Data []byte
}

// Reader returns a new reader over the message data.
func (e *Envelope) Reader() io.Reader {
	return bytes.NewReader(e.Data)
}
