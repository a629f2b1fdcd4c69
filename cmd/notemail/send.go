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

package main

import (
	"context"

	"github.com/lukasdietrich/notemail/internal/delivery"
	"github.com/lukasdietrich/notemail/internal/notes"
)

type sendCommand struct {
	Resolver *notes.Resolver
	Pipeline *delivery.Pipeline
}

// run resolves the newest note and hands it to the pipeline.
func (c *sendCommand) run(ctx context.Context) (delivery.Outcome, error) {
	note, err := c.Resolver.Latest(ctx)
	if err != nil {
		return delivery.OutcomeFailed, err
	}

	return c.Pipeline.Deliver(ctx, note)
}
