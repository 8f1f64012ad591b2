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

package converter

import "reflect"

// Resolver finds converters for argument types and default values.
type Resolver interface {
	// ForType returns the converter registered for t.
	ForType(t reflect.Type) (Converter, bool)
	// ForValue returns the converter for a default value; nil resolves to
	// the string converter.
	ForValue(v any) (Converter, bool)
}

// Registry maps Go types to converters.
//
// A Registry is populated during configuration and must not be modified once
// the owning application has been committed. Reads are safe for concurrent use.
type Registry struct {
	types map[reflect.Type]Converter
}

// NewRegistry returns a registry holding the built-in converters for
// string, int, int64, float64, bool, []string, []int and []int64.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[reflect.Type]Converter, 8)}
	Register[string](r, String())
	Register[int](r, Int())
	Register[int64](r, Int64())
	Register[float64](r, Float64())
	Register[bool](r, Bool())
	Register[[]string](r, List[string](String()))
	Register[[]int](r, List[int](Int()))
	Register[[]int64](r, List[int64](Int64()))
	return r
}

// Register associates t with c, replacing any previous converter.
func (r *Registry) Register(t reflect.Type, c Converter) {
	r.types[t] = c
}

// Register associates the type parameter with c.
func Register[T any](r *Registry, c Converter) {
	r.Register(reflect.TypeFor[T](), c)
}

// ForType implements [Resolver].
func (r *Registry) ForType(t reflect.Type) (Converter, bool) {
	c, ok := r.types[t]
	return c, ok
}

// ForValue implements [Resolver].
func (r *Registry) ForValue(v any) (Converter, bool) {
	if v == nil {
		return String(), true
	}
	return r.ForType(reflect.TypeOf(v))
}

// Chain returns a resolver consulting each resolver in order.
func Chain(resolvers ...Resolver) Resolver {
	return chain(resolvers)
}

type chain []Resolver

func (c chain) ForType(t reflect.Type) (Converter, bool) {
	for _, r := range c {
		if conv, ok := r.ForType(t); ok {
			return conv, true
		}
	}
	return Converter{}, false
}

func (c chain) ForValue(v any) (Converter, bool) {
	for _, r := range c {
		if conv, ok := r.ForValue(v); ok {
			return conv, true
		}
	}
	return Converter{}, false
}
