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
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "rivaas.dev/traject"

// Config holds the tracer used around path resolution.
//
// A nil *Config and a Config without provider are valid and trace nothing.
type Config struct {
	serviceName    string
	sampleRate     float64
	registerGlobal bool

	provider      trace.TracerProvider
	exporter      sdktrace.SpanExporter
	ownedProvider *sdktrace.TracerProvider
	tracer        trace.Tracer
	propagator    propagation.TextMapPropagator
	enabled       bool
}

// Option configures a [Config].
type Option func(*Config)

// New creates a Config. Without [WithTracerProvider], [WithSampleRate] or
// [WithExporter] tracing is disabled.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		serviceName: "traject",
		sampleRate:  -1,
		propagator:  propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.sampleRate > 1 {
		return nil, fmt.Errorf("sample rate must be between 0 and 1, got %v", c.sampleRate)
	}
	if c.provider == nil && (c.sampleRate >= 0 || c.exporter != nil) {
		c.ownedProvider = newProvider(c)
		c.provider = c.ownedProvider
	}

	if c.provider == nil {
		c.tracer = noop.NewTracerProvider().Tracer(tracerName)
		return c, nil
	}

	if c.registerGlobal {
		otel.SetTracerProvider(c.provider)
		otel.SetTextMapPropagator(c.propagator)
	}
	c.tracer = c.provider.Tracer(tracerName, trace.WithInstrumentationAttributes(
		attribute.String("service.name", c.serviceName),
	))
	c.enabled = true
	return c, nil
}

// MustNew creates a Config or panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return c
}

// WithTracerProvider traces through a caller-owned provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Config) { c.provider = provider }
}

// WithSampleRate creates an SDK provider sampling the given ratio of traces.
// It is ignored when a provider is supplied.
func WithSampleRate(rate float64) Option {
	return func(c *Config) { c.sampleRate = rate }
}

// WithServiceName sets the service name recorded on the tracer.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *Config) { c.propagator = p }
}

// WithGlobalTracerProvider registers the provider and propagator as the
// OpenTelemetry globals.
func WithGlobalTracerProvider() Option {
	return func(c *Config) { c.registerGlobal = true }
}

// IsEnabled reports whether spans are recorded.
func (c *Config) IsEnabled() bool {
	return c != nil && c.enabled
}

// ServiceName returns the configured service name.
func (c *Config) ServiceName() string {
	if c == nil {
		return ""
	}
	return c.serviceName
}

// StartSpan starts a span when tracing is enabled. Otherwise it returns the
// span already in ctx.
func (c *Config) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !c.IsEnabled() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan records err, if any, as the span status and ends the span.
// Spans not started by StartSpan are left open.
func (c *Config) FinishSpan(span trace.Span, err error) {
	if !c.IsEnabled() || span == nil || !span.IsRecording() {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ExtractTraceContext continues a trace propagated in request headers.
func (c *Config) ExtractTraceContext(ctx context.Context, headers http.Header) context.Context {
	if !c.IsEnabled() {
		return ctx
	}
	return c.propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// InjectTraceContext writes the trace context of ctx into headers.
func (c *Config) InjectTraceContext(ctx context.Context, headers http.Header) {
	if !c.IsEnabled() {
		return
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
}

// Shutdown flushes and stops a provider created by [WithSampleRate] or
// [WithExporter].
func (c *Config) Shutdown(ctx context.Context) error {
	if c == nil || c.ownedProvider == nil {
		return nil
	}
	if err := c.ownedProvider.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	return nil
}

// TraceID returns the trace ID of the active span in ctx, or "".
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanID returns the span ID of the active span in ctx, or "".
func SpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

// SetSpanAttributeFromContext adds an attribute to the active span in ctx.
// Values other than string, int, int64, float64 and bool are formatted with %v.
func SetSpanAttributeFromContext(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(buildAttribute(key, value))
}

// AddSpanEventFromContext adds an event to the active span in ctx.
func AddSpanEventFromContext(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func buildAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
