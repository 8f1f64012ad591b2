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

package config

import "time"

// Settings configures the trajectd server and the observability of the
// applications it hosts.
type Settings struct {
	Server  ServerSettings  `config:"server"`
	Log     LogSettings     `config:"log"`
	Metrics MetricsSettings `config:"metrics"`
	Tracing TracingSettings `config:"tracing"`
	Errors  ErrorSettings   `config:"errors"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Addr     string        `config:"addr" validate:"required,hostname_port"`
	Timeout  time.Duration `config:"timeout" validate:"gt=0"`
	Shutdown time.Duration `config:"shutdown" validate:"gt=0"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level  string `config:"level" validate:"oneof=debug info warn error"`
	Format string `config:"format" validate:"oneof=json text"`
}

// MetricsSettings configures metric export. The Prometheus provider serves
// Path; push providers export every Interval.
type MetricsSettings struct {
	Enabled  bool          `config:"enabled"`
	Provider string        `config:"provider" validate:"oneof=prometheus otlp stdout"`
	Path     string        `config:"path" validate:"startswith=/"`
	Endpoint string        `config:"endpoint" validate:"required_if=Provider otlp"`
	Interval time.Duration `config:"interval" validate:"gte=0"`
}

// TracingSettings configures span sampling and export.
type TracingSettings struct {
	Enabled  bool    `config:"enabled"`
	Ratio    float64 `config:"ratio" validate:"gte=0,lte=1"`
	Exporter string  `config:"exporter" validate:"oneof=none stdout otlp"`
	Endpoint string  `config:"endpoint" validate:"required_if=Exporter otlp"`
}

// ErrorSettings selects how errors are rendered.
type ErrorSettings struct {
	Format string `config:"format" validate:"oneof=simple rfc9457"`
	Base   string `config:"base" validate:"omitempty,url"`
}

// Default returns the settings used for every value no source provides.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:     ":8080",
			Timeout:  30 * time.Second,
			Shutdown: 10 * time.Second,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsSettings{
			Provider: "prometheus",
			Path:     "/metrics",
			Interval: 30 * time.Second,
		},
		Tracing: TracingSettings{
			Ratio:    1,
			Exporter: "none",
		},
		Errors: ErrorSettings{
			Format: "simple",
		},
	}
}
