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

// Package logger supplies the structured, leveled logger every other
// component takes a *slog.Logger from: TRACE/DEBUG/INFO/WARNING/ERROR/OFF
// severities, a choice between a text or a JSON slog.Handler, and a level
// fixed per logger when New builds it. File rotation is intentionally out of scope —
// not part of this repository's config schema, see DESIGN.md.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Severity strings accepted by Config.Severity (spec.md §6 ambient stack).
const (
	TRACE   = "TRACE"
	DEBUG   = "DEBUG"
	INFO    = "INFO"
	WARNING = "WARNING"
	ERROR   = "ERROR"
	OFF     = "OFF"
)

// slog has no TRACE level; it is mapped four steps below Debug.
const LevelTrace = slog.LevelDebug - 4

// Config selects severity and output format for New.
type Config struct {
	Severity string
	Format   string // "text" or "json"
}

func levelFor(severity string) slog.Level {
	switch severity {
	case TRACE:
		return LevelTrace
	case DEBUG:
		return slog.LevelDebug
	case WARNING:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	case OFF:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

var levelNames = map[slog.Leveler]string{
	LevelTrace:      "TRACE",
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARNING",
	slog.LevelError: "ERROR",
}

// New builds a *slog.Logger writing to w at cfg's severity and format.
func New(w io.Writer, cfg Config) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(levelFor(cfg.Severity))

	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// replaceAttr renders level as "severity" with kufu's own level names, and
// timestamps as {seconds, nanos} under the key "timestamp", in both the text
// and the JSON format.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		level := a.Value.Any().(slog.Level)
		name, ok := levelNames[level]
		if !ok {
			name = level.String()
		}
		a.Key = "severity"
		a.Value = slog.StringValue(name)
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			return a
		}
		a.Key = "timestamp"
		a.Value = slog.GroupValue(
			slog.Int64("seconds", t.Unix()),
			slog.Int("nanos", t.Nanosecond()),
		)
	}
	return a
}

// WithContext attaches logger to ctx so deeply nested calls (watch handlers,
// manager operations) can retrieve it without threading an explicit param.
type ctxKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached by WithContext, or slog.Default()
// if none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// Fatalf logs at ERROR and panics, matching spec.md §6 "Exit behavior: fatal
// errors panic with a human-readable message".
func Fatalf(l *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.Error(msg)
	panic(msg)
}
