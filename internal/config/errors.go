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
	"errors"
	"fmt"
)

var (
	// ErrMissing is used for required values, that are absent or empty.
	ErrMissing = errors.New("missing required value")

	// ErrMalformed is used for values, that are present but cannot be parsed.
	ErrMalformed = errors.New("malformed value")
)

// ConfigError is returned by Load for the first configuration key, that is missing or malformed.
// Err is either ErrMissing or ErrMalformed.
type ConfigError struct {
	Key   string
	Err   error
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Key, e.Err, e.Cause)
	}

	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func missing(key string) error {
	return &ConfigError{Key: key, Err: ErrMissing}
}

func malformed(key string, cause error) error {
	return &ConfigError{Key: key, Err: ErrMalformed, Cause: cause}
}
