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
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider selects where an owned meter provider exports.
type Provider string

const (
	// PrometheusProvider serves a scrape endpoint through [Recorder.Handler].
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider writes JSON encoded metrics to a writer.
	StdoutProvider Provider = "stdout"
)

const defaultExportInterval = 30 * time.Second

// WithOTLP pushes metrics to the OTLP HTTP collector at endpoint.
// An http:// endpoint disables TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.endpoint = endpoint
	}
}

// WithStdout writes metrics to w on every export interval.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.output = w
	}
}

// WithExportInterval sets how often push providers export. It defaults to
// 30 seconds.
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) { r.interval = d }
}

func (r *Recorder) initProvider() error {
	switch r.provider {
	case "", PrometheusProvider:
		return r.initPrometheusProvider()
	case OTLPProvider:
		return r.initOTLPProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	default:
		return fmt.Errorf("unsupported metrics provider %q", r.provider)
	}
}

// initPrometheusProvider exports into a private registry so several
// recorders can coexist in one process.
func (r *Recorder) initPrometheusProvider() error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.prometheusHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return nil
}

func (r *Recorder) initOTLPProvider() error {
	var opts []otlpmetrichttp.Option
	if r.endpoint != "" {
		endpoint, insecure := strings.CutPrefix(r.endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		if idx := strings.IndexByte(endpoint, '/'); idx != -1 {
			endpoint = endpoint[:idx]
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(r.periodicReader(exporter)))
	return nil
}

func (r *Recorder) initStdoutProvider() error {
	if r.output == nil {
		return errors.New("stdout provider requires an output writer")
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(r.output))
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(r.periodicReader(exporter)))
	return nil
}

func (r *Recorder) periodicReader(exporter sdkmetric.Exporter) sdkmetric.Reader {
	interval := r.interval
	if interval <= 0 {
		interval = defaultExportInterval
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
}
