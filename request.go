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
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"rivaas.dev/traject/dispatch"
	"rivaas.dev/traject/pattern"
)

var errNoMount = errors.New("traject: request has not been published")

// Request is an HTTP request being published. It records the path segments
// not yet resolved and the mounts traversed so far. A Request is owned by
// the goroutine serving it.
type Request struct {
	http       *http.Request
	ctx        context.Context
	path       string
	unconsumed []string
	query      url.Values
	mounts     []*Mount
	viewName   string
}

// NewRequest wraps r. It fails when the path contains an invalid escape.
func NewRequest(r *http.Request) (*Request, error) {
	segments, err := pattern.Split(r.URL.EscapedPath())
	if err != nil {
		return nil, err
	}
	return &Request{
		http:       r,
		ctx:        r.Context(),
		path:       r.URL.Path,
		unconsumed: segments,
		query:      r.URL.Query(),
	}, nil
}

// HTTP returns the wrapped request.
func (r *Request) HTTP() *http.Request {
	return r.http
}

// Context returns the request context, carrying the publish span.
func (r *Request) Context() context.Context {
	return r.ctx
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.http.Method
}

// Path returns the unescaped request path.
func (r *Request) Path() string {
	return r.path
}

// Query returns the URL parameters.
func (r *Request) Query() url.Values {
	return r.query
}

// Unconsumed returns the path segments not yet resolved.
func (r *Request) Unconsumed() []string {
	return slices.Clone(r.unconsumed)
}

// Mounts returns the mounts traversed, root first.
func (r *Request) Mounts() []*Mount {
	return slices.Clone(r.mounts)
}

// Mount returns the innermost mount traversed, or nil before publishing.
func (r *Request) Mount() *Mount {
	if len(r.mounts) == 0 {
		return nil
	}
	return r.mounts[len(r.mounts)-1]
}

// ViewName returns the view name taken from the last path segment, or "".
func (r *Request) ViewName() string {
	return r.viewName
}

// Lookup returns the view lookup of the current app.
func (r *Request) Lookup() *dispatch.Lookup {
	m := r.Mount()
	if m == nil {
		return nil
	}
	return m.Lookup()
}

// Link returns the URL of model in the current app, optionally of one of
// its named views.
//
// Example:
//
//	href, err := req.Link(doc, "edit") // "/documents/1/edit"
func (r *Request) Link(model any, view ...string) (string, error) {
	m := r.Mount()
	if m == nil {
		return "", errNoMount
	}
	return m.Link(model, view...)
}

// Child returns the mount of app inside the current app; see [Mount.Child].
func (r *Request) Child(app *App, vars map[string]any) *Mount {
	m := r.Mount()
	if m == nil {
		return nil
	}
	return m.Child(app, vars)
}

func (r *Request) notFound() error {
	unconsumed := slices.Clone(r.unconsumed)
	if len(unconsumed) == 0 && r.viewName != "" {
		unconsumed = []string{r.viewName}
	}
	return &NotFoundError{Path: r.path, Unconsumed: unconsumed}
}
