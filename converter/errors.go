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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoValue is returned when a value is decoded from an empty list.
	ErrNoValue = errors.New("no value")

	// ErrWrongType is returned when a value of the wrong type is encoded.
	ErrWrongType = errors.New("value has the wrong type")
)

// ConversionError is returned when a value cannot be decoded or encoded.
type ConversionError struct {
	Converter string
	Value     string
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s converter: cannot convert %q: %v", e.Converter, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NoConverterFoundError is returned at registration time when no converter
// can be resolved for an argument.
type NoConverterFoundError struct {
	Argument string
	Default  any
	Type     reflect.Type
}

func (e *NoConverterFoundError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("cannot find converter for argument %q of type %s", e.Argument, e.Type)
	}
	return fmt.Sprintf("cannot find converter for argument %q with default value %#v (%T)", e.Argument, e.Default, e.Default)
}
