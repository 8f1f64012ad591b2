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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"rivaas.dev/traject/dispatch"
)

const viewKey = "view"

var requestType = reflect.TypeFor[*Request]()

// Predicate names known to every app.
const (
	NamePredicate   = "name"
	MethodPredicate = "request_method"
)

// ViewFunc produces the content for model.
type ViewFunc func(req *Request, model any) (any, error)

// Renderer turns view content into a response.
type Renderer func(req *Request, content any) (*Response, error)

// View is a registered view.
type View struct {
	// Func computes the content.
	Func ViewFunc
	// Render writes the content; nil means [Render].
	Render Renderer
	// Permission guards the view when non-nil. It is passed to the app's
	// [PermissionChecker].
	Permission any
}

// ViewOption sets a predicate value of a view registration.
type ViewOption func(values map[string]any)

// Named registers the view under a name, reached through a trailing path
// segment such as "/documents/1/edit".
func Named(name string) ViewOption {
	return WithPredicate(NamePredicate, name)
}

// Method restricts the view to an HTTP method. The default is GET.
func Method(method string) ViewOption {
	return WithPredicate(MethodPredicate, method)
}

// WithPredicate sets the value of a predicate added with [App.AddPredicate].
func WithPredicate(name string, value any) ViewOption {
	return func(values map[string]any) {
		values[name] = value
	}
}

// DefaultPredicates returns the predicates of a new app: the view name and
// the request method.
func DefaultPredicates() []dispatch.Predicate {
	return []dispatch.Predicate{
		RequestPredicate(NamePredicate, "", 0, (*Request).ViewName, ErrNotFound),
		RequestPredicate(MethodPredicate, http.MethodGet, 10, (*Request).Method, ErrMethodNotAllowed),
	}
}

// RequestPredicate builds a predicate computed from the request.
// fallback is reported when no view matches the computed value.
//
// Example:
//
//	app.AddPredicate(traject.RequestPredicate("format", "html", 20,
//		func(req *traject.Request) string { return req.Query().Get("format") },
//		traject.ErrNotFound))
func RequestPredicate[T any](name string, def T, order int, compute func(*Request) T, fallback error) dispatch.Predicate {
	return dispatch.Predicate{
		Name:     name,
		Default:  def,
		Order:    order,
		Fallback: fallback,
		Compute: func(observed any) any {
			req, ok := observed.(*Request)
			if !ok {
				return def
			}
			return compute(req)
		},
	}
}

// AddView registers a view for models of type model. Views of the same
// model type share one predicate matcher, so a second registration with
// other predicate values extends the first.
//
// Example:
//
//	app.AddView(reflect.TypeFor[*Document](), traject.View{Func: showDocument})
//	app.AddView(reflect.TypeFor[*Document](), traject.View{Func: saveDocument},
//		traject.Named("edit"), traject.Method(http.MethodPost))
func (a *App) AddView(model reflect.Type, view View, opts ...ViewOption) error {
	if a.committed {
		return ErrCommitted
	}
	if model == nil || view.Func == nil {
		return a.fail(errors.New("traject: view needs a model type and a function"))
	}

	values := make(map[string]any)
	for _, opt := range opts {
		opt(values)
	}

	types := []reflect.Type{requestType, model}
	var matcher *dispatch.Matcher
	if existing, ok := a.views.Exact(viewKey, types); ok {
		matcher = existing.(*dispatch.Matcher)
	} else {
		matcher = dispatch.NewMatcher(a.predicates...)
		if err := a.views.Register(viewKey, types, matcher); err != nil {
			return a.fail(err)
		}
	}

	if view.Render == nil {
		view.Render = Render
	}
	if err := matcher.Add(values, &view); err != nil {
		return a.fail(fmt.Errorf("view for %v: %w", model, err))
	}
	a.viewCount++
	return nil
}

// Response is a rendered view.
type Response struct {
	// Status defaults to 200.
	Status int
	Header http.Header
	Body   []byte
}

// Write sends the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, values := range r.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	if r.Body != nil {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// Render is the default renderer. A *Response passes through, a string is
// plain text, a []byte is an octet stream, nil is an empty 204 response and
// anything else is JSON.
func Render(req *Request, content any) (*Response, error) {
	switch v := content.(type) {
	case *Response:
		return v, nil
	case nil:
		return &Response{Status: http.StatusNoContent}, nil
	case string:
		return RenderText(req, v)
	case []byte:
		return bytesResponse("application/octet-stream", v), nil
	default:
		return RenderJSON(req, v)
	}
}

// RenderJSON encodes content as JSON.
func RenderJSON(_ *Request, content any) (*Response, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("rendering json: %w", err)
	}
	return bytesResponse("application/json; charset=utf-8", body), nil
}

// RenderText formats content with %v as plain text.
func RenderText(_ *Request, content any) (*Response, error) {
	return bytesResponse("text/plain; charset=utf-8", []byte(fmt.Sprint(content))), nil
}

func bytesResponse(contentType string, body []byte) *Response {
	return &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	}
}
