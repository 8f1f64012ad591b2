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

import (
	"reflect"
	"slices"
)

// Argument declares one named input of a model factory.
//
// Arguments replace signature introspection: each registration lists its
// arguments explicitly, with a default value, an optional explicit converter
// or type, and whether the argument is a required URL parameter.
type Argument struct {
	Name      string
	Default   any
	Required  bool
	Converter *Converter
	Type      reflect.Type
}

// Arg declares an argument with a default value. The default selects the
// converter unless an explicit converter or type is given.
func Arg(name string, def any) Argument {
	return Argument{Name: name, Default: def}
}

// Typed declares an argument whose converter is resolved from T.
// Its default value is nil.
func Typed[T any](name string) Argument {
	return Argument{Name: name, Type: reflect.TypeFor[T]()}
}

// AsRequired marks the argument as a required URL parameter.
func (a Argument) AsRequired() Argument {
	a.Required = true
	return a
}

// With sets an explicit converter.
func (a Argument) With(c Converter) Argument {
	a.Converter = &c
	return a
}

// OfType sets an explicit type used to resolve the converter.
func (a Argument) OfType(t reflect.Type) Argument {
	a.Type = t
	return a
}

// DeriveArguments returns args without the excluded names, preserving order.
// Structural arguments such as "request" or "parent" are excluded this way
// because they are supplied by the resolver, not by the URL.
func DeriveArguments(args []Argument, exclude ...string) []Argument {
	out := make([]Argument, 0, len(args))
	for _, a := range args {
		if slices.Contains(exclude, a.Name) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// DeriveConverters resolves a converter for every argument.
//
// Precedence is: the explicit converter; the converter for the explicit type;
// the converter for the default value. The argument default is attached to the
// resolved converter. A *NoConverterFoundError is returned for the first
// argument without a converter.
func DeriveConverters(args []Argument, resolver Resolver) (map[string]Converter, error) {
	converters := make(map[string]Converter, len(args))
	for _, a := range args {
		var (
			c  Converter
			ok bool
		)
		switch {
		case a.Converter != nil:
			c, ok = *a.Converter, !a.Converter.IsZero()
		case a.Type != nil:
			c, ok = resolver.ForType(a.Type)
		default:
			c, ok = resolver.ForValue(a.Default)
		}
		if !ok {
			return nil, &NoConverterFoundError{Argument: a.Name, Default: a.Default, Type: a.Type}
		}
		if a.Default != nil || a.Converter == nil {
			c = c.WithDefault(a.Default)
		}
		converters[a.Name] = c
	}
	return converters, nil
}

// SplitParameters separates URL parameters from path-derived arguments.
// Arguments not named by pathVariables become URL parameters with their
// declared defaults; the path-derived argument names are returned in order.
func SplitParameters(args []Argument, pathVariables map[string]struct{}) (map[string]any, []string) {
	params := make(map[string]any)
	var pathArgs []string
	for _, a := range args {
		if _, ok := pathVariables[a.Name]; ok {
			pathArgs = append(pathArgs, a.Name)
			continue
		}
		params[a.Name] = a.Default
	}
	return params, pathArgs
}
