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

package traject

import (
	"net/http"

	riverrors "rivaas.dev/traject/errors"
)

// ServeHTTP publishes r from a root mount of the app with an empty context.
// Errors are written with the app's formatter.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(a.tracing.ExtractTraceContext(r.Context(), r.Header))

	req, err := NewRequest(r)
	if err != nil {
		a.writeError(w, r, riverrors.WithStatus(err, http.StatusBadRequest))
		return
	}
	resp, err := Publish(req, a.Mounted(nil))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := resp.Write(w); err != nil {
		a.log().WarnContext(r.Context(), "writing response failed", "path", r.URL.Path, "error", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if riverrors.StatusOf(err) >= http.StatusInternalServerError {
		a.log().ErrorContext(r.Context(), "publish failed", "path", r.URL.Path, "error", err)
	}
	f := a.formatter
	if f == nil {
		f = riverrors.NewSimple()
	}
	if werr := riverrors.Write(w, r, f, err); werr != nil {
		a.log().WarnContext(r.Context(), "writing error response failed", "error", werr)
	}
}
