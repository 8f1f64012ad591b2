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

// Package pattern parses route templates into literal and variable segments.
//
// A template is a slash separated list of segments. A segment of the form
// {name} is a variable capturing exactly one request path segment; anything
// else is matched literally:
//
//	p := pattern.MustParse("/users/{id}/edit")
//	p.Names()                                   // ["id"]
//	p.Interpolate(map[string]string{"id": "42"}) // "/users/42/edit"
//
// Multi-segment wildcards are not supported.
package pattern
