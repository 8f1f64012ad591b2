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

package tree

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"rivaas.dev/traject/converter"
	"rivaas.dev/traject/pattern"
)

// VariablesFunc extracts the variables needed to rebuild a model's path
// (path variables and URL parameters) from a model.
type VariablesFunc func(model any) map[string]any

// Variabler is implemented by models that report their own path variables.
type Variabler interface {
	PathVariables() map[string]any
}

// Registration binds a model type to a path template, its converters and its
// factory.
//
// Every path variable has a converter and Required is a subset of the URL
// parameter names. A Registration is immutable once registered.
type Registration struct {
	Model      reflect.Type
	Path       *pattern.Path
	Variables  VariablesFunc
	Converters map[string]converter.Converter
	Required   map[string]struct{}
	Parameters map[string]any
	Factory    Factory

	// Mount marks a registration whose models are mounted applications.
	Mount bool
}

// Option configures a registration.
type Option func(*options)

type options struct {
	variables VariablesFunc
	exclude   []string
	mount     bool
}

// WithVariables sets the function that extracts path variables from models.
func WithVariables(fn VariablesFunc) Option {
	return func(o *options) {
		o.variables = fn
	}
}

// WithExcluded drops the named arguments from URL parameters and converters.
// Mount context variables are excluded this way.
func WithExcluded(names ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, names...)
	}
}

// AsMount marks the registration as a mount point.
func AsMount() Option {
	return func(o *options) {
		o.mount = true
	}
}

// NewRegistration builds a registration for models of type model at path.
//
// Arguments named by path variables are decoded from path segments, the
// remaining arguments are URL parameters. A path variable without a declared
// argument is a string. Structural arguments and excluded names are dropped
// from args and may not appear as path variables.
// Converters are resolved at registration time, so a missing converter is
// reported here rather than on the first request.
func NewRegistration(model reflect.Type, path string, args []converter.Argument, resolver converter.Resolver, factory Factory, opts ...Option) (*Registration, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	p, err := pattern.Parse(path)
	if err != nil {
		return nil, err
	}

	excluded := append(slices.Clone(o.exclude), Structural...)
	for _, name := range p.Names() {
		if slices.Contains(excluded, name) {
			return nil, &pattern.MalformedPathError{Template: path, Reason: "variable " + name + " is supplied by the resolver"}
		}
	}

	args = converter.DeriveArguments(args, excluded...)
	declared := make(map[string]struct{}, len(args))
	for _, a := range args {
		declared[a.Name] = struct{}{}
	}
	for _, name := range p.Names() {
		if _, ok := declared[name]; !ok {
			args = append(args, converter.Arg(name, nil))
		}
	}

	converters, err := converter.DeriveConverters(args, resolver)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", p, err)
	}

	params, _ := converter.SplitParameters(args, p.Variables())
	required := make(map[string]struct{})
	for _, a := range args {
		if _, ok := params[a.Name]; ok && a.Required {
			required[a.Name] = struct{}{}
		}
	}

	variables := o.variables
	if variables == nil {
		names := make([]string, 0, len(args))
		for _, a := range args {
			names = append(names, a.Name)
		}
		variables = fieldVariables(names)
	}

	return &Registration{
		Model:      model,
		Path:       p,
		Variables:  variables,
		Converters: converters,
		Required:   required,
		Parameters: params,
		Factory:    factory,
		Mount:      o.mount,
	}, nil
}

// Combine returns the registration of sub resolved relative to r.
//
// The combined path is r's path followed by sub's path. The combined factory
// resolves the base model with r's factory and passes it to sub's factory as
// [Args.Base]; when the base is absent so is the result. getBase maps a sub
// model back to its base model for reverse generation.
func (r *Registration) Combine(sub *Registration, getBase func(model any) any) (*Registration, error) {
	if getBase == nil {
		return nil, ErrNoGetBase
	}
	for name := range sub.Converters {
		if _, dup := r.Converters[name]; dup {
			return nil, &DuplicateVariableError{Name: name, Base: r.Path.String(), Sub: sub.Path.String()}
		}
	}

	p, err := r.Path.Join(sub.Path)
	if err != nil {
		return nil, err
	}

	converters := maps.Clone(r.Converters)
	maps.Copy(converters, sub.Converters)
	required := maps.Clone(r.Required)
	maps.Copy(required, sub.Required)
	params := maps.Clone(r.Parameters)
	maps.Copy(params, sub.Parameters)

	baseFactory, subFactory := r.Factory, sub.Factory
	baseVariables, subVariables := r.Variables, sub.Variables

	return &Registration{
		Model:      sub.Model,
		Path:       p,
		Converters: converters,
		Required:   required,
		Parameters: params,
		Factory: func(args Args) (any, bool) {
			base, ok := baseFactory(args)
			if !ok || base == nil {
				return nil, false
			}
			return subFactory(args.With(BaseArgument, base))
		},
		Variables: func(model any) map[string]any {
			vars := baseVariables(getBase(model))
			if vars == nil {
				vars = make(map[string]any)
			}
			maps.Copy(vars, subVariables(model))
			return vars
		},
	}, nil
}

// IsParameter reports whether name is a URL parameter of the registration.
func (r *Registration) IsParameter(name string) bool {
	_, ok := r.Parameters[name]
	return ok
}

// IsRequired reports whether name is a required URL parameter.
func (r *Registration) IsRequired(name string) bool {
	_, ok := r.Required[name]
	return ok
}

// fieldVariables returns a VariablesFunc reading names from a Variabler or,
// failing that, from exported struct fields. A field matches a name through
// its "path" tag or by name, ignoring case and underscores.
func fieldVariables(names []string) VariablesFunc {
	return func(model any) map[string]any {
		out := make(map[string]any, len(names))
		if v, ok := model.(Variabler); ok {
			vars := v.PathVariables()
			for _, name := range names {
				if value, ok := vars[name]; ok {
					out[name] = value
				}
			}
			return out
		}

		rv := reflect.ValueOf(model)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return out
		}
		for _, name := range names {
			if idx, ok := fieldIndex(rv.Type(), name); ok {
				out[name] = rv.FieldByIndex(idx).Interface()
			}
		}
		return out
	}
}

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	want := normalize(name)
	var fallback []int
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("path"); ok {
			if tag == name {
				return f.Index, true
			}
			continue
		}
		if fallback == nil && normalize(f.Name) == want {
			fallback = f.Index
		}
	}
	return fallback, fallback != nil
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
