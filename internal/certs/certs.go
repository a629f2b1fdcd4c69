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

// Package certs builds the tls configuration used to verify the relay.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/google/wire"
	"github.com/spf13/afero"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/log"
)

// ErrNoCertificates is used for CA files without a single PEM encoded certificate.
var ErrNoCertificates = errors.New("no certificates found")

// WireSet provides the relay tls configuration.
var WireSet = wire.NewSet(
	NewTLSConfig,
)

// NewTLSConfig creates the client tls config for the relay. Without SMTP_CA_FILE only the system
// roots are trusted. A CA file that cannot be used is reported as a malformed configuration.
func NewTLSConfig(cfg config.Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.SMTP.CAFile == "" {
		return tlsConfig, nil
	}

	pool, err := LoadPool(afero.NewOsFs(), cfg.SMTP.CAFile)
	if err != nil {
		return nil, &config.ConfigError{Key: config.KeyCAFile, Err: config.ErrMalformed, Cause: err}
	}

	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// LoadPool reads PEM encoded certificates and adds them to the system roots.
func LoadPool(fs afero.Fs, filename string) (*x509.CertPool, error) {
	pem, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		log.Warn().Err(err).Msg("system roots unavailable, trusting the CA file only")
		pool = x509.NewCertPool()
	}

	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%q: %w", filename, ErrNoCertificates)
	}

	log.Debug().
		Str("file", filename).
		Msg("loaded additional certificate authorities")

	return pool, nil
}
