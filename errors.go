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
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Configuration errors.
var (
	// ErrCommitted is returned by configuration methods after [App.Commit].
	ErrCommitted = errors.New("traject: app is committed")
	// ErrNotCommitted is returned when an uncommitted app publishes a request.
	ErrNotCommitted = errors.New("traject: app is not committed")
	// ErrUnknownBase is returned by [App.AddSubpath] when the base model has
	// no path registration.
	ErrUnknownBase = errors.New("traject: base model has no path")
	// ErrNoRegistration is returned by links for models without a path.
	ErrNoRegistration = errors.New("traject: model has no path")
	// ErrPredicateAfterView is returned by [App.AddPredicate] once a view has
	// been added.
	ErrPredicateAfterView = errors.New("traject: predicates must be added before views")
	// ErrMountCycle is returned by [App.Commit] when apps mount each other
	// at paths that consume no segment.
	ErrMountCycle = errors.New("traject: mount cycle without path segments")
)

// Request errors. They carry an HTTP status and a machine-readable code for
// the error formatters.
var (
	ErrNotFound         error = &requestError{msg: "not found", code: "not_found", status: http.StatusNotFound}
	ErrForbidden        error = &requestError{msg: "forbidden", code: "forbidden", status: http.StatusForbidden}
	ErrMethodNotAllowed error = &requestError{msg: "method not allowed", code: "method_not_allowed", status: http.StatusMethodNotAllowed}
)

type requestError struct {
	msg    string
	code   string
	status int
}

func (e *requestError) Error() string   { return e.msg }
func (e *requestError) Code() string    { return e.code }
func (e *requestError) HTTPStatus() int { return e.status }

// NotFoundError reports the path segments that could not be published.
// It matches [ErrNotFound] with errors.Is.
type NotFoundError struct {
	// Path is the request path.
	Path string
	// Unconsumed holds the segments left when resolution stopped.
	Unconsumed []string
}

func (e *NotFoundError) Error() string {
	if len(e.Unconsumed) == 0 {
		return fmt.Sprintf("not found: %s", e.Path)
	}
	return fmt.Sprintf("not found: %s (unresolved %q)", e.Path, strings.Join(e.Unconsumed, "/"))
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Code returns "not_found".
func (e *NotFoundError) Code() string { return "not_found" }

// HTTPStatus returns 404.
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// Details returns the unresolved segments.
func (e *NotFoundError) Details() any {
	return map[string]any{"unconsumed": e.Unconsumed}
}
