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

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestLogContextTestSuite(t *testing.T) {
	suite.Run(t, new(LogContextTestSuite))
}

type LogContextTestSuite struct {
	baseLogTestSuite
}

func (s *LogContextTestSuite) TestWithRun() {
	ctx := WithRun(context.TODO(), "run1")
	InfoContext(ctx).Msg("TestWithRun")

	s.assertMsg("{\"level\":\"info\",\"run\":\"run1\",\"message\":\"TestWithRun\"}\n")
}

func (s *LogContextTestSuite) TestWithStage() {
	ctx := WithStage(context.TODO(), "connect")
	InfoContext(ctx).Msg("TestWithStage")

	s.assertMsg("{\"level\":\"info\",\"stage\":\"connect\",\"message\":\"TestWithStage\"}\n")
}

func (s *LogContextTestSuite) TestWithNote() {
	ctx := WithNote(context.TODO(), "/notes/a.txt")
	InfoContext(ctx).Msg("TestWithNote")

	s.assertMsg("{\"level\":\"info\",\"note\":\"/notes/a.txt\",\"message\":\"TestWithNote\"}\n")
}

func (s *LogContextTestSuite) TestWithAll() {
	ctx := context.TODO()
	ctx = WithNote(ctx, "b.txt")
	ctx = WithStage(ctx, "auth")
	ctx = WithRun(ctx, "run2")
	InfoContext(ctx).Msg("TestWithAll")

	s.assertMsg("{\"level\":\"info\"," +
		"\"run\":\"run2\",\"stage\":\"auth\",\"note\":\"b.txt\"," +
		"\"message\":\"TestWithAll\"}\n")
}
