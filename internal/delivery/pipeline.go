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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/log"
	"github.com/lukasdietrich/notemail/internal/models"
	"github.com/lukasdietrich/notemail/internal/notes"
)

// Outcome is the terminal state of a delivery.
type Outcome int

const (
	// OutcomeFailed means the note was not sent because of an error.
	OutcomeFailed Outcome = iota
	// OutcomeSent means the relay accepted the message.
	OutcomeSent
	// OutcomeCancelled means the user declined to send the note.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Confirmer asks the user a single yes/no question.
type Confirmer interface {
	// Confirm returns true only for an explicit affirmative answer.
	Confirm(question string) (bool, error)
}

// Sender submits a composed envelope to the relay. Send is called at most once per delivery.
type Sender interface {
	Send(ctx context.Context, envelope *models.Envelope) error
}

// Options configure the pipeline.
type Options struct {
	Message       MessageOptions
	PreviewLength int
}

// OptionsFromConfig takes the pipeline options from the configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Message:       MessageOptionsFromConfig(cfg),
		PreviewLength: cfg.PreviewLength,
	}
}

// Pipeline previews a note, asks for confirmation and sends it.
type Pipeline struct {
	confirmer Confirmer
	sender    Sender
	out       io.Writer
	opts      Options
	now       func() time.Time
}

// NewPipeline creates a new pipeline writing its preview to out.
func NewPipeline(confirmer Confirmer, sender Sender, out io.Writer, opts Options) *Pipeline {
	return &Pipeline{
		confirmer: confirmer,
		sender:    sender,
		out:       out,
		opts:      opts,
		now:       time.Now,
	}
}

// Deliver shows the preview of the note and sends it after the user confirmed. A declined prompt
// is not an error and results in OutcomeCancelled without any connection to the relay. Failed
// sends are returned as *Error and are never retried.
func (p *Pipeline) Deliver(ctx context.Context, note *notes.Note) (Outcome, error) {
	ctx = log.WithNote(ctx, note.Path)

	log.DebugContext(log.WithStage(ctx, "preview")).
		Int("length", p.opts.PreviewLength).
		Msg("rendering preview")

	if err := RenderPreview(p.out, note, p.opts.PreviewLength, p.now()); err != nil {
		return OutcomeFailed, fmt.Errorf("could not render preview: %w", err)
	}

	question := fmt.Sprintf("Send this note to %s? (y/n): ", p.opts.Message.To)

	confirmed, err := p.confirmer.Confirm(question)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("could not read confirmation: %w", err)
	}

	if !confirmed {
		log.InfoContext(log.WithStage(ctx, "confirm")).Msg("sending declined")
		fmt.Fprintln(p.out, "Sending cancelled.")
		return OutcomeCancelled, nil
	}

	envelope, err := Compose(p.opts.Message, note, p.now())
	if err != nil {
		return OutcomeFailed, fmt.Errorf("could not compose message: %w", err)
	}

	if err := p.sender.Send(ctx, envelope); err != nil {
		var deliveryErr *Error
		if !errors.As(err, &deliveryErr) {
			err = stageErr(StageTransmit, err)
		}

		return OutcomeFailed, err
	}

	log.InfoContext(ctx).
		Str("to", envelope.To.String()).
		Int("bytes", len(envelope.Data)).
		Msg("note sent")

	fmt.Fprintf(p.out, "Note sent to %s.\n", envelope.To)
	return OutcomeSent, nil
}
