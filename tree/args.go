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

import "maps"

// Names of structural arguments. They are supplied by the resolver rather
// than decoded from the URL and are never URL parameters.
const (
	RequestArgument = "request"
	ParentArgument  = "parent"
	BaseArgument    = "base"
)

// Structural lists the structural argument names.
var Structural = []string{RequestArgument, ParentArgument, BaseArgument}

// Factory constructs a model from resolved arguments.
// It returns false when no model exists for the arguments; the resolver then
// backtracks to the next candidate route.
type Factory func(args Args) (any, bool)

// Args holds the decoded arguments passed to a [Factory].
// Typed accessors return the zero value when the argument is absent or has
// another type.
type Args struct {
	values map[string]any
}

// NewArgs returns Args backed by a copy of values.
func NewArgs(values map[string]any) Args {
	return Args{values: maps.Clone(values)}
}

// Lookup returns the named argument and whether it is present.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Get returns the named argument or nil.
func (a Args) Get(name string) any {
	return a.values[name]
}

// String returns the named string argument.
func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Int returns the named int argument.
func (a Args) Int(name string) int {
	i, _ := a.values[name].(int)
	return i
}

// Int64 returns the named int64 argument.
func (a Args) Int64(name string) int64 {
	i, _ := a.values[name].(int64)
	return i
}

// Float64 returns the named float64 argument.
func (a Args) Float64(name string) float64 {
	f, _ := a.values[name].(float64)
	return f
}

// Bool returns the named bool argument.
func (a Args) Bool(name string) bool {
	b, _ := a.values[name].(bool)
	return b
}

// Strings returns the named []string argument.
func (a Args) Strings(name string) []string {
	s, _ := a.values[name].([]string)
	return s
}

// Base returns the model a subpath hangs off.
func (a Args) Base() any {
	return a.values[BaseArgument]
}

// Request returns the structural request argument.
func (a Args) Request() any {
	return a.values[RequestArgument]
}

// Parent returns the structural parent argument.
func (a Args) Parent() any {
	return a.values[ParentArgument]
}

// Map returns a copy of all arguments.
func (a Args) Map() map[string]any {
	return maps.Clone(a.values)
}

// With returns a copy of a with name set to v.
func (a Args) With(name string, v any) Args {
	values := make(map[string]any, len(a.values)+1)
	maps.Copy(values, a.values)
	values[name] = v
	return Args{values: values}
}
