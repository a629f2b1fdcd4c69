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
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/log"
	"github.com/lukasdietrich/notemail/internal/models"
)

// RelayOptions describe how to reach and authenticate against the relay.
type RelayOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	Security config.Security
	Timeout  time.Duration

	// TLSConfig is cloned for every connection. The server name is always set to Host.
	TLSConfig *tls.Config
}

// RelayOptionsFromConfig takes the relay options from the configuration.
func RelayOptionsFromConfig(cfg config.Config, tlsConfig *tls.Config) RelayOptions {
	return RelayOptions{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		Security:  cfg.SMTP.Security,
		Timeout:   cfg.SMTP.Timeout,
		TLSConfig: tlsConfig,
	}
}

// localName is sent in the EHLO command.
const localName = "localhost"

func (o RelayOptions) addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Relay submits mails to the configured smtp relay. Every call to Send opens exactly one
// connection. Credentials are only ever sent over an encrypted connection.
type Relay struct {
	opts     RelayOptions
	progress io.Writer
}

// NewRelay creates a new relay writing progress lines to progress.
func NewRelay(opts RelayOptions, progress io.Writer) *Relay {
	return &Relay{
		opts:     opts,
		progress: progress,
	}
}

// Send delivers the envelope in a single attempt. Failures are returned as *Error.
func (r *Relay) Send(ctx context.Context, envelope *models.Envelope) error {
	conn, err := r.dial(log.WithStage(ctx, string(StageConnect)))
	if err != nil {
		return err
	}

	defer conn.Close()

	// a canceled context aborts any blocking command
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := r.newClient(ctx, conn)
	if err != nil {
		return err
	}

	defer client.Close()

	if r.opts.Timeout > 0 {
		client.CommandTimeout = r.opts.Timeout
		client.SubmissionTimeout = r.opts.Timeout
	}

	if err := r.authenticate(log.WithStage(ctx, string(StageAuth)), client); err != nil {
		return err
	}

	return r.transmit(log.WithStage(ctx, string(StageTransmit)), client, envelope)
}

// dial opens the plain tcp connection.
func (r *Relay) dial(ctx context.Context) (*relayConn, error) {
	r.printf("Connecting to %s...\n", r.opts.addr())

	log.DebugContext(ctx).
		Str("addr", r.opts.addr()).
		Str("security", string(r.opts.Security)).
		Msg("dialing relay")

	dialer := net.Dialer{Timeout: r.opts.Timeout}

	conn, err := dialer.DialContext(ctx, "tcp", r.opts.addr())
	if err != nil {
		return nil, stageErr(StageConnect, err)
	}

	return &relayConn{Conn: conn, timeout: r.opts.Timeout}, nil
}

// newClient encrypts the connection, either right away for implicit tls or using STARTTLS, and
// reads the greeting.
func (r *Relay) newClient(ctx context.Context, conn *relayConn) (*smtp.Client, error) {
	r.printf("Starting TLS...\n")

	if r.opts.Security == config.SecurityTLS {
		return r.newImplicitTLSClient(ctx, conn)
	}

	client, err := smtp.NewClientStartTLS(conn, r.tlsConfig())
	if err != nil {
		return nil, r.startTLSErr(ctx, conn, err)
	}

	// the handshake may be deferred until the next command
	if err := client.Noop(); err != nil {
		client.Close()
		return nil, stageErr(StageTLS, err)
	}

	if err := r.checkEncrypted(ctx, client); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func (r *Relay) newImplicitTLSClient(ctx context.Context, conn *relayConn) (*smtp.Client, error) {
	handshakeCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		handshakeCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	tlsConn := tls.Client(conn, r.tlsConfig())
	if err := tlsConn.HandshakeContext(handshakeCtx); err != nil {
		return nil, stageErr(StageTLS, err)
	}

	client := smtp.NewClient(tlsConn)
	if err := client.Hello(localName); err != nil {
		client.Close()
		return nil, stageErr(StageConnect, err)
	}

	if err := r.checkEncrypted(ctx, client); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// startTLSErr classifies a failed STARTTLS setup. Errors before the STARTTLS command was sent
// belong to the greeting, unless the relay simply does not offer STARTTLS.
func (r *Relay) startTLSErr(ctx context.Context, conn *relayConn, err error) error {
	ctx = log.WithStage(ctx, string(StageTLS))

	if conn.startTLSSent {
		var smtpErr *smtp.SMTPError
		if errors.As(err, &smtpErr) {
			log.WarnContext(ctx).Err(err).Msg("relay refused STARTTLS")
			return stageErr(StageTLS, fmt.Errorf("%w: %w", ErrStartTLSUnsupported, err))
		}

		return stageErr(StageTLS, err)
	}

	if isConnectErr(err) {
		return stageErr(StageConnect, err)
	}

	log.WarnContext(ctx).Err(err).Msg("relay does not advertise STARTTLS")
	return stageErr(StageTLS, fmt.Errorf("%w: %w", ErrStartTLSUnsupported, err))
}

// isConnectErr tests if an error is a rejected greeting or a failing connection.
func isConnectErr(err error) bool {
	var (
		smtpErr *smtp.SMTPError
		netErr  net.Error
	)

	return errors.As(err, &smtpErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}

func (r *Relay) checkEncrypted(ctx context.Context, client *smtp.Client) error {
	state, ok := client.TLSConnectionState()
	if !ok || !state.HandshakeComplete {
		return stageErr(StageTLS, ErrNotEncrypted)
	}

	log.DebugContext(log.WithStage(ctx, string(StageTLS))).
		Uint16("version", state.Version).
		Str("cipher", tls.CipherSuiteName(state.CipherSuite)).
		Msg("connection encrypted")

	return nil
}

// authenticate logs in using PLAIN or, if the relay does not offer it, LOGIN.
func (r *Relay) authenticate(ctx context.Context, client *smtp.Client) error {
	if _, ok := client.TLSConnectionState(); !ok {
		return stageErr(StageAuth, ErrNotEncrypted)
	}

	ok, params := client.Extension("AUTH")
	if !ok {
		return stageErr(StageAuth, ErrAuthUnsupported)
	}

	offered := make(map[string]bool)
	for _, mechanism := range strings.Fields(strings.ToUpper(params)) {
		offered[mechanism] = true
	}

	var (
		mechanism  string
		saslClient sasl.Client
	)

	switch {
	case offered[sasl.Plain]:
		mechanism = sasl.Plain
		saslClient = sasl.NewPlainClient("", r.opts.Username, r.opts.Password)

	case offered[sasl.Login]:
		mechanism = sasl.Login
		saslClient = sasl.NewLoginClient(r.opts.Username, r.opts.Password)

	default:
		return stageErr(StageAuth, fmt.Errorf("%w: %s", ErrAuthUnsupported, params))
	}

	r.printf("Logging in as %s...\n", r.opts.Username)

	log.DebugContext(ctx).
		Str("mechanism", mechanism).
		Str("username", r.opts.Username).
		Msg("authenticating")

	if err := client.Auth(saslClient); err != nil {
		return stageErr(StageAuth, err)
	}

	return nil
}

// transmit sends the envelope, the message data and quits the session.
func (r *Relay) transmit(ctx context.Context, client *smtp.Client, envelope *models.Envelope) error {
	from, err := envelope.From.ASCII()
	if err != nil {
		return stageErr(StageTransmit, err)
	}

	to, err := envelope.To.ASCII()
	if err != nil {
		return stageErr(StageTransmit, err)
	}

	r.printf("Sending to %s...\n", envelope.To)

	if err := client.Mail(from, nil); err != nil {
		return stageErr(StageTransmit, err)
	}

	if err := client.Rcpt(to, nil); err != nil {
		return stageErr(StageTransmit, err)
	}

	w, err := client.Data()
	if err != nil {
		return stageErr(StageTransmit, err)
	}

	if _, err := io.Copy(w, envelope.Reader()); err != nil {
		w.Close()
		return stageErr(StageTransmit, err)
	}

	if err := w.Close(); err != nil {
		return stageErr(StageTransmit, err)
	}

	// the message is accepted at this point, a failing QUIT does not change that
	if err := client.Quit(); err != nil {
		log.WarnContext(ctx).Err(err).Msg("could not quit session")
	}

	return nil
}

func (r *Relay) tlsConfig() *tls.Config {
	var cfg *tls.Config
	if r.opts.TLSConfig != nil {
		cfg = r.opts.TLSConfig.Clone()
	} else {
		cfg = new(tls.Config)
	}

	cfg.ServerName = r.opts.Host

	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}

	return cfg
}

func (r *Relay) printf(format string, args ...interface{}) {
	if r.progress != nil {
		fmt.Fprintf(r.progress, format, args...)
	}
}

// relayConn is the plain connection below the smtp client. It records the STARTTLS command and
// limits every deadline the client sets to the configured timeout.
type relayConn struct {
	net.Conn

	timeout      time.Duration
	startTLSSent bool
}

func (c *relayConn) Write(b []byte) (int, error) {
	if !c.startTLSSent && bytes.HasPrefix(bytes.ToUpper(b), []byte("STARTTLS")) {
		c.startTLSSent = true
	}

	return c.Conn.Write(b)
}

func (c *relayConn) SetDeadline(t time.Time) error {
	return c.Conn.SetDeadline(c.limit(t))
}

func (c *relayConn) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(c.limit(t))
}

func (c *relayConn) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(c.limit(t))
}

func (c *relayConn) limit(t time.Time) time.Time {
	if c.timeout <= 0 || t.IsZero() {
		return t
	}

	if limit := time.Now().Add(c.timeout); t.After(limit) {
		return limit
	}

	return t
}
