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
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoMatch is returned by [Matcher.Match] when no value matches and the
// failing predicate declares no fallback error.
var ErrNoMatch = errors.New("no match")

// DuplicateError is returned when a value is registered twice for the same
// key and argument types, or a matcher receives the same predicate values twice.
type DuplicateError struct {
	Key   string
	Types []reflect.Type
}

func (e *DuplicateError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = typeName(t)
	}
	return fmt.Sprintf("duplicate registration for %s(%s)", e.Key, strings.Join(names, ", "))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
