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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"
)

type receivedMail struct {
	from string
	to   []string
	data []byte
}

// testRelay is an in-process submission server offering STARTTLS and AUTH PLAIN.
type testRelay struct {
	mu sync.Mutex

	username string
	password string

	sessions int
	mails    []receivedMail

	port   int
	caFile string
}

func (r *testRelay) NewSession(*smtp.Conn) (smtp.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions++
	return &testRelaySession{relay: r}, nil
}

func (r *testRelay) snapshot() (int, []receivedMail) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sessions, append([]receivedMail(nil), r.mails...)
}

type testRelaySession struct {
	relay  *testRelay
	authed bool
	mail   receivedMail
}

func (s *testRelaySession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *testRelaySession) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.relay.username || password != s.relay.password {
			return &smtp.SMTPError{Code: 535, EnhancedCode: smtp.EnhancedCode{5, 7, 8}, Message: "Authentication failed"}
		}

		s.authed = true
		return nil
	}), nil
}

func (s *testRelaySession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}

	s.mail.from = from
	return nil
}

func (s *testRelaySession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.mail.to = append(s.mail.to, to)
	return nil
}

func (s *testRelaySession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mail.data = data

	s.relay.mu.Lock()
	s.relay.mails = append(s.relay.mails, s.mail)
	s.relay.mu.Unlock()

	return nil
}

func (s *testRelaySession) Reset() {
	s.mail = receivedMail{}
}

func (s *testRelaySession) Logout() error {
	return nil
}

// startTestRelay serves on a random local port with a self-signed certificate for 127.0.0.1. The
// certificate is written to a PEM file usable as SMTP_CA_FILE.
func startTestRelay(t *testing.T, username, password string) *testRelay {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "127.0.0.1"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	relay := &testRelay{
		username: username,
		password: password,
		caFile:   filepath.Join(t.TempDir(), "relay-ca.pem"),
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(relay.caFile, certPEM, 0600))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	relay.port = l.Addr().(*net.TCPAddr).Port

	server := smtp.NewServer(relay)
	server.Domain = "localhost"
	server.ReadTimeout = 5 * time.Second
	server.WriteTimeout = 5 * time.Second
	server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
	}

	go server.Serve(l)
	t.Cleanup(func() { server.Close() })

	return relay
}
