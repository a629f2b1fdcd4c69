//go:build wireinject
// +build wireinject

package main

import (
	"io"

	"github.com/google/wire"

	"github.com/lukasdietrich/notemail/internal/certs"
	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/delivery"
	"github.com/lukasdietrich/notemail/internal/notes"
	"github.com/lukasdietrich/notemail/internal/prompt"
)

var wireSet = wire.NewSet(
	wire.Struct(new(sendCommand), "*"),
	wire.Bind(new(delivery.Confirmer), new(*prompt.Console)),
	wire.Bind(new(delivery.Sender), new(*delivery.Relay)),

	certs.WireSet,
	notes.WireSet,
	prompt.WireSet,
	delivery.WireSet,
)

func newSendCommand(cfg config.Config, in io.Reader, out io.Writer) (*sendCommand, error) {
	panic(wire.Build(wireSet))
}
