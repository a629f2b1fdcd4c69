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
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/models"
	"github.com/lukasdietrich/notemail/internal/notes"
)

// MessageOptions are the static parts of every composed message.
type MessageOptions struct {
	From          models.Address
	To            models.Address
	SubjectPrefix string
}

// MessageOptionsFromConfig takes the message options from the configuration.
func MessageOptionsFromConfig(cfg config.Config) MessageOptions {
	return MessageOptions{
		From:          cfg.From,
		To:            cfg.To,
		SubjectPrefix: cfg.SubjectPrefix,
	}
}

// Compose creates the envelope for a note. The content is base64 encoded, so that the recipient
// receives exactly the bytes of the note.
func Compose(opts MessageOptions, note *notes.Note, now time.Time) (*models.Envelope, error) {
	from, err := opts.From.ASCII()
	if err != nil {
		return nil, fmt.Errorf("sender %q: %w", opts.From, err)
	}

	to, err := opts.To.ASCII()
	if err != nil {
		return nil, fmt.Errorf("recipient %q: %w", opts.To, err)
	}

	messageID, err := newMessageID(from)
	if err != nil {
		return nil, err
	}

	subject := opts.SubjectPrefix + note.Name()

	var header mail.Header
	header.SetDate(now)
	header.SetAddressList("From", []*mail.Address{{Address: from}})
	header.SetAddressList("To", []*mail.Address{{Address: to}})
	header.SetSubject(subject)
	header.SetMessageID(messageID)
	header.Set("MIME-Version", "1.0")
	header.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	header.Set("Content-Transfer-Encoding", "base64")

	var buf bytes.Buffer

	w, err := mail.CreateSingleInlineWriter(&buf, header)
	if err != nil {
		return nil, err
	}

	if _, err := io.WriteString(w, note.Content); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return &models.Envelope{
		From:    opts.From,
		To:      opts.To,
		Subject: subject,
		Date:    now,
		Body:    note.Content,
		Data:    buf.Bytes(),
	}, nil
}

// newMessageID creates a random id in the domain of the sender.
func newMessageID(from string) (string, error) {
	addr, err := models.Parse(from)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s@%s", uuid.New(), addr.Domain()), nil
}
