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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/credential"
	"github.com/lukasdietrich/notemail/internal/delivery"
	"github.com/lukasdietrich/notemail/internal/log"
	"github.com/lukasdietrich/notemail/internal/notes"
)

const usageText = `
Usage:
  notemail [OPTIONS]

  Send your latest note by email.

  The newest .txt file below the notes directory is shown and, after you
  confirmed, sent to TO_EMAIL through the configured smtp relay.

Version:
  %s

Options:
%s
Configuration (env file or environment):
  FROM_EMAIL, TO_EMAIL, SMTP_SERVER, EMAIL_PASSWORD    required
  SMTP_PORT (587), SMTP_USERNAME (FROM_EMAIL), SMTP_SECURITY (starttls),
  SMTP_TIMEOUT (30s), SMTP_CA_FILE, NOTES_DIR (notes), NOTES_PATTERN (**/*.txt),
  SUBJECT_PREFIX, PREVIEW_LENGTH (200), KEYRING_SERVICE, LOG_LEVEL (warn)
`

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	// Version is set at compile-time.
	Version string
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes a single invocation and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		envFilename string
		logFormat   string
	)

	flags := pflag.NewFlagSet("notemail", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&envFilename, "env-file", "e", ".env", "Path to the env file")
	flags.StringP("notes", "n", "", "Directory to search for notes (overrides NOTES_DIR)")
	flags.StringP("log-level", "l", "", "Log level (overrides LOG_LEVEL)")
	flags.StringVar(&logFormat, "log-format", "json", "Log format, either json or console")
	flags.Usage = printUsage(stderr, flags)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}

		fmt.Fprintln(stderr, err)
		flags.Usage()
		return exitUsage
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument %q\n", flags.Arg(0))
		flags.Usage()
		return exitUsage
	}

	v := viper.New()
	config.SetDefaults(v)

	if err := v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
		return report(stderr, err)
	}

	if flags.Changed("notes") {
		notesDir, _ := flags.GetString("notes")
		if abs, err := filepath.Abs(notesDir); err == nil {
			notesDir = abs
		}

		v.Set(config.KeyNotesDir, notesDir)
	}

	envErr := setupConfig(v, envFilename)

	if err := setupLogger(v, stderr, logFormat); err != nil {
		return report(stderr, err)
	}

	if envErr != nil {
		if !errors.Is(envErr, fs.ErrNotExist) {
			return report(stderr, fmt.Errorf("could not read env file %q: %w", envFilename, envErr))
		}

		log.Warn().
			Str("file", envFilename).
			Msg("env file missing, using environment only")
	}

	printConfig(v)

	cfg, err := config.Load(v,
		config.WithBaseDir(filepath.Dir(envFilename)),
		config.WithSecretLookup(credential.Lookup))
	if err != nil {
		return report(stderr, err)
	}

	ctx := log.WithRun(context.Background(), uuid.NewString())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cmd, err := newSendCommand(cfg, stdin, stdout)
	if err != nil {
		return report(stderr, err)
	}

	outcome, err := cmd.run(ctx)

	log.InfoContext(ctx).
		Str("outcome", outcome.String()).
		Msg("finished")

	if err != nil {
		return report(stderr, err)
	}

	return exitOK
}

func printUsage(w io.Writer, flags *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, usageText,
			Version,
			flags.FlagUsages())
	}
}

// setupConfig reads the env file into v. The process environment always takes precedence.
func setupConfig(v *viper.Viper, filename string) error {
	v.AutomaticEnv()
	v.SetConfigFile(filename)
	v.SetConfigType("env")

	return v.ReadInConfig()
}

func setupLogger(v *viper.Viper, w io.Writer, format string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString(config.KeyLogLevel)))
	if err != nil {
		return &config.ConfigError{Key: config.KeyLogLevel, Err: config.ErrMalformed, Cause: err}
	}

	switch format {
	case "json":
		log.Setup(w, level, false)
	case "console":
		log.Setup(w, level, true)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	log.Debug().
		Str("level", level.String()).
		Msg("logger ready")

	return nil
}

// printConfig logs every known key. Secrets are redacted.
func printConfig(v *viper.Viper) {
	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		value := v.Get(key)
		if strings.EqualFold(key, config.KeyPassword) {
			value = "<redacted>"
		}

		encoded, _ := json.Marshal(value)

		log.Debug().
			Str("key", strings.ToUpper(key)).
			RawJSON("value", encoded).
			Msg("configuration")
	}
}

// report writes a human readable description of err and returns the matching exit code.
func report(w io.Writer, err error) int {
	for _, line := range describe(err) {
		fmt.Fprintln(w, line)
	}

	log.Error().Err(err).Msg("notemail failed")
	return exitFailure
}

// describe turns an error into one line naming the category plus optional hints.
func describe(err error) []string {
	var (
		configErr     *config.ConfigError
		unreadableErr *notes.UnreadableError
		deliveryErr   *delivery.Error
	)

	switch {
	case errors.As(err, &configErr):
		return []string{
			fmt.Sprintf("Configuration error: %v", err),
			fmt.Sprintf("  Check %s in the env file or the environment.", configErr.Key),
		}

	case errors.Is(err, notes.ErrDirectoryMissing):
		return []string{
			fmt.Sprintf("Notes directory missing: %v", err),
			"  Create it or point NOTES_DIR at an existing directory.",
		}

	case errors.Is(err, notes.ErrNoNotes):
		return []string{
			fmt.Sprintf("No notes found: %v", err),
		}

	case errors.As(err, &unreadableErr):
		return []string{
			fmt.Sprintf("Could not read note: %v", err),
		}

	case errors.As(err, &deliveryErr):
		lines := []string{
			fmt.Sprintf("Could not send note: %v", err),
		}

		for _, hint := range deliveryErr.Hints() {
			lines = append(lines, "  "+hint)
		}

		return lines
	}

	return []string{
		fmt.Sprintf("Error: %v", err),
	}
}
