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
	"fmt"
	"reflect"
	"strconv"

	"github.com/spf13/cast"
)

// Converter converts between request strings and typed values.
//
// A single-valued converter decodes the first of the supplied values; a
// multiple-valued converter (see [List]) decodes every value. The default
// value is substituted by callers when an optional parameter is absent or
// fails to decode.
//
// Converter values are immutable; WithDefault returns a modified copy.
type Converter struct {
	name     string
	decode   func(values []string) (any, error)
	encode   func(v any) ([]string, error)
	def      any
	multiple bool
}

// Func builds a single-valued converter from a typed decode and encode pair.
func Func[T any](name string, decode func(string) (T, error), encode func(T) string) Converter {
	c := Converter{name: name}
	c.decode = func(values []string) (any, error) {
		if len(values) == 0 {
			return nil, &ConversionError{Converter: name, Err: ErrNoValue}
		}
		v, err := decode(values[0])
		if err != nil {
			return nil, &ConversionError{Converter: name, Value: values[0], Err: err}
		}
		return v, nil
	}
	c.encode = func(v any) ([]string, error) {
		typed, ok := v.(T)
		if !ok {
			return nil, &ConversionError{Converter: name, Value: fmt.Sprint(v), Err: ErrWrongType}
		}
		return []string{encode(typed)}, nil
	}
	return c
}

// List builds a multiple-valued converter decoding every value with elem.
// The decoded value is a []T; elem must decode to T.
func List[T any](elem Converter) Converter {
	name := "list[" + elem.name + "]"
	c := Converter{name: name, multiple: true}
	c.decode = func(values []string) (any, error) {
		out := make([]T, 0, len(values))
		for _, s := range values {
			v, err := elem.decode([]string{s})
			if err != nil {
				return nil, err
			}
			typed, ok := v.(T)
			if !ok {
				return nil, &ConversionError{Converter: name, Value: s, Err: ErrWrongType}
			}
			out = append(out, typed)
		}
		return out, nil
	}
	c.encode = func(v any) ([]string, error) {
		items, ok := v.([]T)
		if !ok {
			return nil, &ConversionError{Converter: name, Value: fmt.Sprint(v), Err: ErrWrongType}
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			encoded, err := elem.encode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, encoded...)
		}
		return out, nil
	}
	return c
}

// String returns the lossless string converter. Any value is accepted for
// encoding and rendered with its string form.
func String() Converter {
	return Converter{
		name: "string",
		decode: func(values []string) (any, error) {
			if len(values) == 0 {
				return nil, &ConversionError{Converter: "string", Err: ErrNoValue}
			}
			return values[0], nil
		},
		encode: func(v any) ([]string, error) {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, &ConversionError{Converter: "string", Value: fmt.Sprint(v), Err: err}
			}
			return []string{s}, nil
		},
	}
}

// Int returns the base-10 integer converter.
// Decoding is lossy for non-canonical input: "007" decodes to 7 and encodes as "7".
func Int() Converter {
	return Func("int", strconv.Atoi, strconv.Itoa)
}

// Int64 returns the base-10 int64 converter. Lossiness is the same as [Int].
func Int64() Converter {
	return Func("int64",
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		func(v int64) string { return strconv.FormatInt(v, 10) })
}

// Float64 returns the float converter.
// Values are encoded with the shortest representation, so "1.50" round trips as "1.5".
func Float64() Converter {
	return Func("float64",
		func(s string) (float64, error) { return cast.ToFloat64E(s) },
		func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })
}

// Bool returns the boolean converter. Every spelling accepted by
// strconv.ParseBool decodes; values always encode as "true" or "false".
func Bool() Converter {
	return Func("bool",
		func(s string) (bool, error) { return cast.ToBoolE(s) },
		strconv.FormatBool)
}

// Name returns a short description of the converter, used in error messages.
func (c Converter) Name() string {
	return c.name
}

// IsZero reports whether c is the zero Converter.
func (c Converter) IsZero() bool {
	return c.decode == nil
}

// Multiple reports whether the converter decodes every value of a parameter.
func (c Converter) Multiple() bool {
	return c.multiple
}

// Default returns the fallback value for optional parameters.
func (c Converter) Default() any {
	return c.def
}

// WithDefault returns a copy of c with the given default value.
func (c Converter) WithDefault(v any) Converter {
	c.def = v
	return c
}

// Decode converts request values to a typed value.
func (c Converter) Decode(values []string) (any, error) {
	return c.decode(values)
}

// Encode converts a typed value to request values.
func (c Converter) Encode(v any) ([]string, error) {
	return c.encode(v)
}

// IsDefault reports whether v equals the converter default.
// A nil default also matches nil and zero values, so an unset model field
// is treated as absent.
func (c Converter) IsDefault(v any) bool {
	if c.def == nil {
		return v == nil || reflect.ValueOf(v).IsZero()
	}
	return reflect.DeepEqual(v, c.def)
}
