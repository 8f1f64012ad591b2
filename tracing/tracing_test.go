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

package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorded(t *testing.T) (*Config, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return MustNew(WithTracerProvider(tp), WithServiceName("test")), sr
}

func TestConfig_Disabled(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	assert.False(t, c.IsEnabled())

	ctx, span := c.StartSpan(context.Background(), "traject.publish")
	assert.False(t, span.IsRecording())
	assert.Empty(t, TraceID(ctx))
	c.FinishSpan(span, nil)

	var nilConfig *Config
	assert.False(t, nilConfig.IsEnabled())
	assert.Empty(t, nilConfig.ServiceName())
	require.NoError(t, nilConfig.Shutdown(context.Background()))
}

func TestConfig_InvalidSampleRate(t *testing.T) {
	t.Parallel()

	_, err := New(WithSampleRate(1.5))
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(WithSampleRate(2)) })
}

func TestConfig_SampleRateOwnsProvider(t *testing.T) {
	t.Parallel()

	c := MustNew(WithSampleRate(1))
	assert.True(t, c.IsEnabled())

	ctx, span := c.StartSpan(context.Background(), "traject.publish")
	assert.True(t, span.IsRecording())
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))
	c.FinishSpan(span, nil)
	require.NoError(t, c.Shutdown(context.Background()))
}

func TestConfig_Spans(t *testing.T) {
	t.Parallel()

	c, sr := newRecorded(t)
	assert.Equal(t, "test", c.ServiceName())

	ctx, publish := c.StartSpan(context.Background(), "traject.publish", attribute.String("app", "site"))
	_, resolve := c.StartSpan(ctx, "traject.resolve", attribute.Int("mount.depth", 0))
	SetSpanAttributeFromContext(ctx, "view.name", "edit")
	SetSpanAttributeFromContext(ctx, "segments", []string{"a"})
	AddSpanEventFromContext(ctx, "backtrack", attribute.Int("candidate", 2))
	c.FinishSpan(resolve, nil)
	c.FinishSpan(publish, errors.New("no model"))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "traject.resolve", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())

	assert.Equal(t, "traject.publish", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "no model", spans[1].Status().Description)
	assert.Contains(t, spans[1].Attributes(), attribute.String("view.name", "edit"))
	assert.Contains(t, spans[1].Attributes(), attribute.String("segments", "[a]"))
	require.Len(t, spans[1].Events(), 2)
	assert.Equal(t, "backtrack", spans[1].Events()[0].Name)
}

func TestConfig_Propagation(t *testing.T) {
	t.Parallel()

	c, _ := newRecorded(t)
	ctx, span := c.StartSpan(context.Background(), "client")
	defer c.FinishSpan(span, nil)

	headers := http.Header{}
	c.InjectTraceContext(ctx, headers)
	require.NotEmpty(t, headers.Get("traceparent"))

	extracted := c.ExtractTraceContext(context.Background(), headers)
	assert.Equal(t, TraceID(ctx), TraceID(extracted))
}

func TestBuildAttribute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, attribute.Int64("k", 2), buildAttribute("k", int64(2)))
	assert.Equal(t, attribute.Float64("k", 1.5), buildAttribute("k", 1.5))
	assert.Equal(t, attribute.Bool("k", true), buildAttribute("k", true))
	assert.Equal(t, attribute.String("k", "x"), buildAttribute("k", "x"))
}
