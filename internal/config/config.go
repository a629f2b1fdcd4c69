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

package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/notemail/internal/models"
)

// Configuration keys as they appear in the env file and the process environment.
const (
	KeyFromEmail      = "FROM_EMAIL"
	KeyToEmail        = "TO_EMAIL"
	KeySMTPServer     = "SMTP_SERVER"
	KeySMTPPort       = "SMTP_PORT"
	KeyPassword       = "EMAIL_PASSWORD"
	KeyUsername       = "SMTP_USERNAME"
	KeySecurity       = "SMTP_SECURITY"
	KeyTimeout        = "SMTP_TIMEOUT"
	KeyCAFile         = "SMTP_CA_FILE"
	KeyNotesDir       = "NOTES_DIR"
	KeyNotesPattern   = "NOTES_PATTERN"
	KeySubjectPrefix  = "SUBJECT_PREFIX"
	KeyPreviewLength  = "PREVIEW_LENGTH"
	KeyKeyringService = "KEYRING_SERVICE"
	KeyLogLevel       = "LOG_LEVEL"
)

// Security is the way the connection to the relay is encrypted.
type Security string

const (
	// SecurityStartTLS connects in plain text and upgrades using the STARTTLS command.
	SecurityStartTLS Security = "starttls"
	// SecurityTLS connects using implicit tls.
	SecurityTLS Security = "tls"
)

const (
	defaultSubmissionPort = 587
	defaultImplicitPort   = 465
)

// SetDefaults registers the default values of all optional keys.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySecurity, string(SecurityStartTLS))
	v.SetDefault(KeyTimeout, "30s")
	v.SetDefault(KeyNotesDir, "notes")
	v.SetDefault(KeyNotesPattern, "**/*.txt")
	v.SetDefault(KeySubjectPrefix, "Note: ")
	v.SetDefault(KeyPreviewLength, 200)
	v.SetDefault(KeyLogLevel, "warn")
}

// Config is the immutable configuration of a single run.
type Config struct {
	From models.Address
	To   models.Address

	SMTP  SMTP
	Notes Notes

	SubjectPrefix string
	PreviewLength int
}

// SMTP holds everything needed to reach and authenticate against the relay.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	Security Security
	Timeout  time.Duration

	// CAFile optionally names a PEM file of additional certificate authorities trusted for the
	// relay connection.
	CAFile string
}

// Addr returns the relay address in the form "host:port".
func (s SMTP) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Notes holds where to look for notes.
type Notes struct {
	Root    string
	Pattern string
}

// SecretLookupFunc reads a secret for key from an external store identified by service.
type SecretLookupFunc func(service, key string) (string, error)

type loadOptions struct {
	baseDir string
	secrets SecretLookupFunc
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithBaseDir sets the directory relative notes roots are resolved against.
func WithBaseDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.baseDir = dir
	}
}

// WithSecretLookup sets the lookup used for the password when KEYRING_SERVICE is configured.
func WithSecretLookup(lookup SecretLookupFunc) LoadOption {
	return func(o *loadOptions) {
		o.secrets = lookup
	}
}

// Load validates the values in v and builds a Config. The first missing or malformed key is
// returned as a *ConfigError.
func Load(v *viper.Viper, opts ...LoadOption) (Config, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	var (
		cfg Config
		err error
	)

	if cfg.From, err = loadAddress(v, KeyFromEmail); err != nil {
		return Config{}, err
	}

	if cfg.To, err = loadAddress(v, KeyToEmail); err != nil {
		return Config{}, err
	}

	if cfg.SMTP, err = loadSMTP(v, cfg.From, options); err != nil {
		return Config{}, err
	}

	if cfg.Notes, err = loadNotes(v, options.baseDir); err != nil {
		return Config{}, err
	}

	cfg.SubjectPrefix = v.GetString(KeySubjectPrefix)

	if cfg.PreviewLength, err = loadInt(v, KeyPreviewLength); err != nil {
		return Config{}, err
	}

	if cfg.PreviewLength < 0 {
		return Config{}, malformed(KeyPreviewLength, fmt.Errorf("%d is negative", cfg.PreviewLength))
	}

	return cfg, nil
}

func loadAddress(v *viper.Viper, key string) (models.Address, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return models.ZeroAddress, missing(key)
	}

	// addresses are shown in unicode and sent in ascii, both forms must exist
	addr, err := models.ParseUnicode(raw)
	if err != nil {
		return models.ZeroAddress, malformed(key, err)
	}

	if _, err := addr.ASCII(); err != nil {
		return models.ZeroAddress, malformed(key, err)
	}

	return addr, nil
}

func loadSMTP(v *viper.Viper, from models.Address, options loadOptions) (SMTP, error) {
	var (
		smtp SMTP
		err  error
	)

	if smtp.Host = strings.TrimSpace(v.GetString(KeySMTPServer)); smtp.Host == "" {
		return SMTP{}, missing(KeySMTPServer)
	}

	switch security := Security(strings.ToLower(v.GetString(KeySecurity))); security {
	case SecurityStartTLS, SecurityTLS:
		smtp.Security = security
	default:
		return SMTP{}, malformed(KeySecurity, fmt.Errorf("unknown mode %q", security))
	}

	if smtp.Port, err = loadPort(v, smtp.Security); err != nil {
		return SMTP{}, err
	}

	if smtp.Timeout, err = time.ParseDuration(v.GetString(KeyTimeout)); err != nil {
		return SMTP{}, malformed(KeyTimeout, err)
	}

	if smtp.Username = strings.TrimSpace(v.GetString(KeyUsername)); smtp.Username == "" {
		smtp.Username = from.String()
	}

	if smtp.Password, err = loadPassword(v, smtp.Username, options.secrets); err != nil {
		return SMTP{}, err
	}

	if caFile := strings.TrimSpace(v.GetString(KeyCAFile)); caFile != "" {
		if smtp.CAFile, err = resolvePath(options.baseDir, caFile); err != nil {
			return SMTP{}, malformed(KeyCAFile, err)
		}
	}

	return smtp, nil
}

func loadPort(v *viper.Viper, security Security) (int, error) {
	raw := strings.TrimSpace(v.GetString(KeySMTPPort))
	if raw == "" {
		if security == SecurityTLS {
			return defaultImplicitPort, nil
		}

		return defaultSubmissionPort, nil
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, malformed(KeySMTPPort, fmt.Errorf("%q is not a number", raw))
	}

	if port < 1 || port > 65535 {
		return 0, malformed(KeySMTPPort, fmt.Errorf("%d is out of range", port))
	}

	return port, nil
}

func loadPassword(v *viper.Viper, username string, secrets SecretLookupFunc) (string, error) {
	if password := v.GetString(KeyPassword); password != "" {
		return password, nil
	}

	service := strings.TrimSpace(v.GetString(KeyKeyringService))
	if service == "" || secrets == nil {
		return "", missing(KeyPassword)
	}

	password, err := secrets(service, username)
	if err != nil {
		return "", &ConfigError{Key: KeyPassword, Err: ErrMissing, Cause: err}
	}

	if password == "" {
		return "", missing(KeyPassword)
	}

	return password, nil
}

func loadNotes(v *viper.Viper, baseDir string) (Notes, error) {
	notes := Notes{
		Root:    strings.TrimSpace(v.GetString(KeyNotesDir)),
		Pattern: strings.TrimSpace(v.GetString(KeyNotesPattern)),
	}

	if notes.Root == "" {
		return Notes{}, missing(KeyNotesDir)
	}

	root, err := resolvePath(baseDir, notes.Root)
	if err != nil {
		return Notes{}, malformed(KeyNotesDir, err)
	}

	notes.Root = root

	if notes.Pattern == "" {
		return Notes{}, missing(KeyNotesPattern)
	}

	if !doublestar.ValidatePattern(notes.Pattern) {
		return Notes{}, malformed(KeyNotesPattern, fmt.Errorf("%q is not a valid pattern", notes.Pattern))
	}

	return notes, nil
}

// resolvePath makes relative paths absolute, using baseDir instead of the working directory if set.
func resolvePath(baseDir, path string) (string, error) {
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	return filepath.Abs(path)
}

func loadInt(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, malformed(key, fmt.Errorf("%q is not a number", raw))
	}

	return n, nil
}
