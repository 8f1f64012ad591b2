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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/traject"
	"rivaas.dev/traject/config"
	"rivaas.dev/traject/internal/demo"
	"rivaas.dev/traject/metrics"
	"rivaas.dev/traject/tracing"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo site over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

// server holds what the HTTP listener needs and what must be shut down
// with it.
type server struct {
	handler  http.Handler
	app      *traject.App
	recorder *metrics.Recorder
	tracer   *tracing.Config
}

func newServer(settings config.Settings, logger *slog.Logger) (*server, error) {
	s := &server{}
	opts := []traject.Option{traject.WithLogger(logger)}

	if settings.Metrics.Enabled {
		recorder, err := metrics.New(metricsOptions(settings.Metrics)...)
		if err != nil {
			return nil, fmt.Errorf("creating metrics recorder: %w", err)
		}
		s.recorder = recorder
		opts = append(opts, traject.WithMetrics(recorder))
	}
	if settings.Tracing.Enabled {
		tracingOpts := []tracing.Option{
			tracing.WithSampleRate(settings.Tracing.Ratio),
			tracing.WithServiceName("trajectd"),
		}
		exp, err := newExporter(settings.Tracing)
		if err != nil {
			return nil, err
		}
		if exp != nil {
			tracingOpts = append(tracingOpts, tracing.WithExporter(exp))
		}
		tracer, err := tracing.New(tracingOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating tracer: %w", err)
		}
		s.tracer = tracer
		opts = append(opts, traject.WithTracing(tracer))
	}
	if settings.Errors.Format == "rfc9457" {
		opts = append(opts, traject.WithProblemDetails(settings.Errors.Base))
	}

	app, err := demo.New(demo.NewStore(), opts...)
	if err != nil {
		return nil, fmt.Errorf("building app: %w", err)
	}
	s.app = app

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(settings.Server.Timeout))

	if h, err := s.recorder.Handler(); err == nil {
		r.Method(http.MethodGet, settings.Metrics.Path, h)
	}
	r.Mount("/", app)
	s.handler = r
	return s, nil
}

func metricsOptions(settings config.MetricsSettings) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithServiceName("trajectd"),
		metrics.WithExportInterval(settings.Interval),
	}
	switch settings.Provider {
	case "otlp":
		opts = append(opts, metrics.WithOTLP(settings.Endpoint))
	case "stdout":
		opts = append(opts, metrics.WithStdout(os.Stdout))
	}
	return opts
}

func newExporter(settings config.TracingSettings) (sdktrace.SpanExporter, error) {
	switch settings.Exporter {
	case "stdout":
		return tracing.NewStdoutExporter(os.Stdout)
	case "otlp":
		return tracing.NewOTLPHTTPExporter(context.Background(), settings.Endpoint)
	default:
		return nil, nil
	}
}

func (s *server) shutdown(ctx context.Context) error {
	return errors.Join(s.recorder.Shutdown(ctx), s.tracer.Shutdown(ctx))
}

func (c *cli) serve(ctx context.Context) error {
	s, err := newServer(c.settings, c.logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.settings.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: c.settings.Server.Timeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		c.logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		c.logger.Info("server shutting down", "reason", context.Cause(ctx))
	}

	// ctx is already canceled; the shutdown needs its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.settings.Server.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server forced to shutdown: %w", err)
	}
	if err := s.shutdown(shutdownCtx); err != nil {
		c.logger.Warn("observability shutdown failed", "error", err)
	}
	c.logger.Info("server exited")
	return nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
