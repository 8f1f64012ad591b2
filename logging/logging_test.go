// Copyright 2026 The Rivaas Authors
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

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	l, err := New(WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, l.Level())
	assert.NotNil(t, l.Logger())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(WithHandlerType("xml"))
	require.ErrorIs(t, err, ErrInvalidHandler)

	_, err = New(WithCustomLogger(nil))
	require.ErrorIs(t, err, ErrNilLogger)

	_, err = New(WithOutput(nil))
	require.ErrorIs(t, err, ErrNilOutput)

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestLogger_TextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithTextHandler(), WithOutput(&buf), WithServiceName("trajectd"), WithServiceVersion("1.0"))
	l.Logger().Info("committed", "routes", 3)

	out := buf.String()
	assert.Contains(t, out, "msg=committed")
	assert.Contains(t, out, "service=trajectd")
	assert.Contains(t, out, "version=1.0")
	assert.Contains(t, out, "routes=3")
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "drop" {
			return slog.Attr{}
		}
		return a
	}))
	th.Slog().Info("login", "token", "abc", "drop", "x", "user", "bob")

	e, ok := th.Find("login")
	require.True(t, ok)
	assert.Equal(t, "***REDACTED***", e.Attrs["token"])
	assert.Equal(t, "bob", e.Attrs["user"])
	assert.NotContains(t, e.Attrs, "drop")
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	th.Slog().Info("hidden")
	require.NoError(t, th.Logger.SetLevel(LevelDebug))
	th.Slog().Debug("shown")

	assert.False(t, th.ContainsLog("hidden"))
	assert.True(t, th.ContainsLog("shown"))

	custom := MustNew(WithCustomLogger(slog.Default()))
	assert.ErrorIs(t, custom.SetLevel(LevelDebug), ErrCannotChangeLevel)
	assert.Same(t, slog.Default(), custom.Logger())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestContextLogger_TraceCorrelation(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "traject.publish")
	cl := NewContextLogger(ctx, th.Slog())
	cl.Info("resolved", "consumed", 2)
	span.End()

	e, ok := th.Find("resolved")
	require.True(t, ok)
	assert.Equal(t, span.SpanContext().TraceID().String(), e.Attrs["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), e.Attrs["span_id"])
	assert.Equal(t, cl.TraceID(), e.Attrs["trace_id"])
	assert.Equal(t, cl.SpanID(), e.Attrs["span_id"])
}

func TestContextLogger_WithoutSpan(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	cl := NewContextLogger(context.Background(), th.Slog())
	cl.With("mount", "wiki").Warn("plain")
	cl.Debug("debug")
	cl.Error("error")

	entries, err := th.Logs()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "wiki", entries[0].Attrs["mount"])
	for _, e := range entries {
		assert.NotContains(t, e.Attrs, "trace_id")
	}
	assert.Empty(t, cl.TraceID())
	assert.True(t, strings.EqualFold(entries[2].Level, "error"))
}
