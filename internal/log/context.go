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

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type fieldRun struct{}
type fieldStage struct{}
type fieldNote struct{}

// WithRun adds the identifier of the current invocation to the context.
func WithRun(ctx context.Context, run string) context.Context {
	return context.WithValue(ctx, fieldRun{}, run)
}

// WithStage adds the name of the pipeline stage to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, fieldStage{}, stage)
}

// WithNote adds the path of the selected note to the context.
func WithNote(ctx context.Context, note string) context.Context {
	return context.WithValue(ctx, fieldNote{}, note)
}

// appendContextFields adds defined fields in the context to the log event.
func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if run, ok := ctx.Value(fieldRun{}).(string); ok {
		event.Str("run", run)
	}

	if stage, ok := ctx.Value(fieldStage{}).(string); ok {
		event.Str("stage", stage)
	}

	if note, ok := ctx.Value(fieldNote{}).(string); ok {
		event.Str("note", note)
	}

	return event
}
