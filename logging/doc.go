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

// Package logging builds the structured [slog.Logger] used by traject
// applications and the trajectd command.
//
// # Basic Usage
//
//	logger := logging.MustNew(
//	    logging.WithServiceName("trajectd"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	app := traject.New("site", traject.WithLogger(logger.Logger()))
//
// # Dynamic Log Levels
//
//	logger.SetLevel(logging.LevelDebug)
//
// # Sensitive Data Redaction
//
// Values of the keys password, token, secret, authorization and cookie are
// redacted.
// Additional sanitization can be configured using WithReplaceAttr.
//
// # Context-Aware Logging
//
// [ContextLogger] adds trace_id and span_id of the active OpenTelemetry span:
//
//	cl := logging.NewContextLogger(ctx, logger.Logger())
//	cl.Debug("resolved", "consumed", 2)
package logging
