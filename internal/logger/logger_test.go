// Copyright 2024 The kufu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	textInfoString    = `^timestamp\.seconds=\d+ timestamp\.nanos=\d+ severity=INFO msg="info example"`
	textWarningString = `^timestamp\.seconds=\d+ timestamp\.nanos=\d+ severity=WARNING msg="warning example"`
	jsonInfoString    = `^{"timestamp":{"seconds":\d+,"nanos":\d+},"severity":"INFO","msg":"info example"}`
)

type LoggerTest struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

func (s *LoggerTest) TestTextFormat_InfoLevel_EmitsInfoAndAbove() {
	var buf bytes.Buffer
	l := New(&buf, Config{Severity: INFO, Format: "text"})

	l.Info("info example")
	assert.Regexp(s.T(), regexp.MustCompile(textInfoString), buf.String())

	buf.Reset()
	l.Warn("warning example")
	assert.Regexp(s.T(), regexp.MustCompile(textWarningString), buf.String())
}

func (s *LoggerTest) TestTextFormat_WarningLevel_SuppressesInfo() {
	var buf bytes.Buffer
	l := New(&buf, Config{Severity: WARNING, Format: "text"})

	l.Info("info example")
	assert.Empty(s.T(), buf.String())
}

func (s *LoggerTest) TestJSONFormat_InfoLevel() {
	var buf bytes.Buffer
	l := New(&buf, Config{Severity: INFO, Format: "json"})

	l.Info("info example")
	assert.Regexp(s.T(), regexp.MustCompile(jsonInfoString), buf.String())
}

func (s *LoggerTest) TestOffLevel_SuppressesEverything() {
	var buf bytes.Buffer
	l := New(&buf, Config{Severity: OFF, Format: "text"})

	l.Error("error example")
	assert.Empty(s.T(), buf.String())
}

func (s *LoggerTest) TestLevelFor() {
	cases := map[string]bool{
		TRACE:   true,
		DEBUG:   true,
		INFO:    true,
		WARNING: true,
		ERROR:   true,
		OFF:     true,
	}
	for severity := range cases {
		assert.NotPanics(s.T(), func() {
			levelFor(severity)
		})
	}
}
