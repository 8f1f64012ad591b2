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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "rivaas.dev/traject"

// ErrNoHandler is returned by [Recorder.Handler] when the recorder does not
// export through Prometheus.
var ErrNoHandler = errors.New("metrics handler requires the prometheus provider")

// Recorder records path resolution metrics.
//
// A nil *Recorder is valid and records nothing, so applications without
// metrics need no special casing.
type Recorder struct {
	serviceName    string
	registerGlobal bool

	provider Provider
	endpoint string
	output   io.Writer
	interval time.Duration

	meterProvider       metric.MeterProvider
	customMeterProvider bool
	prometheusHandler   http.Handler

	meter           metric.Meter
	publishCount    metric.Int64Counter
	resolveDuration metric.Float64Histogram
	lookupBuilds    metric.Int64Counter
}

// Option configures a [Recorder].
type Option func(*Recorder)

// New creates a Recorder. Without [WithMeterProvider], [WithOTLP] or
// [WithStdout] it exports through a private Prometheus registry served by
// [Recorder.Handler].
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{serviceName: "traject"}
	for _, opt := range opts {
		opt(r)
	}

	if r.customMeterProvider {
		if r.meterProvider == nil {
			return nil, errors.New("custom meter provider is nil")
		}
	} else if err := r.initProvider(); err != nil {
		return nil, err
	}

	if r.registerGlobal {
		otel.SetMeterProvider(r.meterProvider)
	}

	r.meter = r.meterProvider.Meter(meterName)
	if err := r.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	return r, nil
}

// MustNew creates a Recorder or panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics initialization failed: " + err.Error())
	}
	return r
}

// Handler returns the Prometheus scrape handler.
func (r *Recorder) Handler() (http.Handler, error) {
	if r == nil || r.prometheusHandler == nil {
		return nil, ErrNoHandler
	}
	return r.prometheusHandler, nil
}

// ServiceName returns the service name attached to every measurement.
func (r *Recorder) ServiceName() string {
	if r == nil {
		return ""
	}
	return r.serviceName
}

// Shutdown flushes and stops a meter provider created by the recorder.
// Custom providers are left to their owner.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil || r.customMeterProvider {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("meter provider shutdown: %w", err)
		}
	}
	return nil
}

// WithMeterProvider records through a caller-owned meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customMeterProvider = true
	}
}

// WithServiceName sets the service attribute of every measurement.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithGlobalMeterProvider registers the provider as the OpenTelemetry global.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) { r.registerGlobal = true }
}
