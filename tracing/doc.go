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

// Package tracing configures OpenTelemetry tracing for path resolution.
//
// Applications record a traject.publish span per request and a
// traject.resolve span per mount level:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	tracer := tracing.MustNew(tracing.WithTracerProvider(tp))
//	app := traject.New("site", traject.WithTracing(tracer))
//
// [WithExporter] builds the provider itself, for example around
// [NewStdoutExporter] or [NewOTLPHTTPExporter]. Without a provider the Config
// is disabled and spans cost nothing.
package tracing
