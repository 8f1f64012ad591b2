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

// Package errors formats errors into HTTP error responses.
//
// Two formatters implement [Formatter]:
//   - [RFC9457]: RFC 9457 Problem Details (application/problem+json)
//   - [Simple]: plain JSON objects (application/json)
//
// Errors control the response through optional interfaces: [ErrorType]
// declares the status code, [ErrorCode] a machine-readable code and
// [ErrorDetails] structured details. Resolution errors such as a path that
// resolves to no model implement ErrorType and ErrorCode, so they render as
// 404 responses with a stable code under either formatter.
//
// [Write] formats and writes an error in one call:
//
//	if err := errors.Write(w, r, errors.NewRFC9457("https://example.com/problems"), err); err != nil {
//		logger.Warn("writing error response", "error", err)
//	}
package errors
