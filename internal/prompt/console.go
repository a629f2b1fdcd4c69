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

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// Console asks yes/no questions on a line oriented terminal. Interactive terminals are read using
// readline, anything else (pipes, files) is read line by line.
type Console struct {
	in       io.Reader
	out      io.Writer
	terminal bool
	lines    *bufio.Reader
}

// NewConsole creates a console reading answers from in and writing questions to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       in,
		out:      out,
		terminal: isTerminal(in),
	}
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && readline.IsTerminal(int(f.Fd()))
}

// Confirm prints the question and blocks until a line is answered. Only "y" and "yes" (ignoring
// case and surrounding whitespace) are affirmative. End of input and interrupts decline.
func (c *Console) Confirm(question string) (bool, error) {
	answer, err := c.readLine(question)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return false, nil
		}

		return false, err
	}

	return IsAffirmative(answer), nil
}

func (c *Console) readLine(question string) (string, error) {
	if c.terminal {
		return c.readTerminalLine(question)
	}

	if c.lines == nil {
		c.lines = bufio.NewReader(c.in)
	}

	if _, err := fmt.Fprint(c.out, question); err != nil {
		return "", err
	}

	line, err := c.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}

	fmt.Fprintln(c.out)
	return line, nil
}

func (c *Console) readTerminalLine(question string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 question,
		Stdout:                 c.out,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return "", err
	}

	defer rl.Close()

	return rl.Readline()
}

// IsAffirmative reports whether answer explicitly agrees.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
