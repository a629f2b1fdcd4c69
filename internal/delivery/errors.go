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
	"errors"
	"fmt"

	"github.com/emersion/go-smtp"
)

// Stage names the step of the smtp session a delivery failed in.
type Stage string

const (
	// StageConnect covers dialing the relay and the greeting.
	StageConnect Stage = "connect"
	// StageTLS covers the STARTTLS upgrade or the implicit tls handshake.
	StageTLS Stage = "tls"
	// StageAuth covers the authentication.
	StageAuth Stage = "auth"
	// StageTransmit covers the envelope, the message data and the final QUIT.
	StageTransmit Stage = "transmit"
)

var (
	// ErrStartTLSUnsupported is used when the relay does not offer STARTTLS. Credentials are never
	// sent over an unencrypted connection.
	ErrStartTLSUnsupported = errors.New("relay does not support STARTTLS")

	// ErrAuthUnsupported is used when the relay does not offer a usable AUTH mechanism.
	ErrAuthUnsupported = errors.New("relay offers no supported AUTH mechanism")

	// ErrNotEncrypted is used when the connection is not encrypted right before authentication.
	ErrNotEncrypted = errors.New("connection is not encrypted")
)

// Error is a failed delivery, classified by the stage it failed in. Deliveries are never retried.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the smtp reply code of the underlying error or 0, if the relay did not reply.
func (e *Error) Code() int {
	var smtpErr *smtp.SMTPError
	if errors.As(e.Err, &smtpErr) {
		return smtpErr.Code
	}

	return 0
}

// Hints returns advice for a human trying to fix the cause of the failure.
func (e *Error) Hints() []string {
	switch e.Stage {
	case StageConnect:
		return []string{
			"Check SMTP_SERVER and SMTP_PORT.",
			"Check that the relay is reachable from this network.",
		}

	case StageTLS:
		return []string{
			"Port 587 usually expects SMTP_SECURITY=starttls, port 465 expects SMTP_SECURITY=tls.",
		}

	case StageAuth:
		return []string{
			"Check if your password is correct.",
			"Make sure SMTP is enabled for your mailbox.",
			"Some providers require SMTP_USERNAME instead of the email address.",
			"With two-factor authentication enabled an app-specific password is usually required.",
		}

	case StageTransmit:
		if isPermanentErr(e.Err) {
			return []string{
				"The relay rejected the mail. Check FROM_EMAIL and TO_EMAIL.",
			}
		}

		return []string{
			"The relay failed temporarily. Try again later.",
		}
	}

	return nil
}

// isPermanentErr tests if an error is an smtp error and if it has a 5xx code.
func isPermanentErr(err error) bool {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return smtpErr.Code >= 500 && smtpErr.Code < 600
	}

	return false
}

func stageErr(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}
