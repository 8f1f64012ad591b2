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
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned when a registration is added to a frozen Traject.
	ErrFrozen = errors.New("traject is frozen")

	// ErrNoGetBase is returned when a subpath is combined without a function
	// mapping its models back to their base model.
	ErrNoGetBase = errors.New("subpath requires a get-base function")
)

// ConflictError is returned when two registrations terminate at the same
// sequence of path steps.
type ConflictError struct {
	Path     string
	Existing string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path %q conflicts with registered path %q", e.Path, e.Existing)
}

// DuplicateVariableError is returned when a subpath declares a variable or
// URL parameter already declared by its base.
type DuplicateVariableError struct {
	Name string
	Base string
	Sub  string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("subpath %q redeclares %q of base path %q", e.Sub, e.Name, e.Base)
}
