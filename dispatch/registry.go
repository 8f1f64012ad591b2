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

package dispatch

import (
	"reflect"
	"slices"
)

// Registry maps a key and a tuple of argument types to a value.
//
// Lookup dispatches on the dynamic types of its arguments: a registered type
// matches an argument of the same type, and an interface type matches every
// argument implementing it. When several entries match, the one with the most
// exact type matches wins; ties go to the earliest registration.
//
// A Registry is built single-threaded and read concurrently afterwards.
type Registry struct {
	entries map[string][]entry
}

type entry struct {
	types []reflect.Type
	value any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]entry)}
}

// Register stores value under key for exactly the given types.
// It returns a *DuplicateError if the key and types are already registered.
func (r *Registry) Register(key string, types []reflect.Type, value any) error {
	if _, ok := r.Exact(key, types); ok {
		return &DuplicateError{Key: key, Types: types}
	}
	r.entries[key] = append(r.entries[key], entry{types: slices.Clone(types), value: value})
	return nil
}

// Exact returns the value registered under key for exactly types.
func (r *Registry) Exact(key string, types []reflect.Type) (any, bool) {
	for _, e := range r.entries[key] {
		if slices.Equal(e.types, types) {
			return e.value, true
		}
	}
	return nil, false
}

// Lookup returns the best value for the dynamic types of args.
func (r *Registry) Lookup(key string, args ...any) (any, bool) {
	return r.LookupTypes(key, TypesOf(args...))
}

// LookupTypes returns the best value for the given argument types.
func (r *Registry) LookupTypes(key string, types []reflect.Type) (any, bool) {
	var (
		best  any
		score = -1
	)
	for _, e := range r.entries[key] {
		s, ok := match(e.types, types)
		if ok && s > score {
			best, score = e.value, s
		}
	}
	return best, score >= 0
}

// Keys returns the registered keys in no particular order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

func match(want, got []reflect.Type) (int, bool) {
	if len(want) != len(got) {
		return 0, false
	}
	score := 0
	for i, w := range want {
		g := got[i]
		switch {
		case w == g:
			score++
		case w != nil && w.Kind() == reflect.Interface && (g == nil || g.Implements(w)):
		default:
			return 0, false
		}
	}
	return score, true
}

// TypesOf returns the dynamic types of args. A nil argument has a nil type.
func TypesOf(args ...any) []reflect.Type {
	types := make([]reflect.Type, len(args))
	for i, a := range args {
		types[i] = reflect.TypeOf(a)
	}
	return types
}
